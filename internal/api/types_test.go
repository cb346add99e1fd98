package api

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParticipantIDsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{"bare array", `[1,2,3]`, []int{1, 2, 3}, false},
		{"serialized array", `"[4,5]"`, []int{4, 5}, false},
		{"empty string", `""`, nil, false},
		{"empty array", `[]`, []int{}, false},
		{"null", `null`, nil, false},
		{"garbage string", `"not json"`, nil, true},
		{"object", `{"a":1}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ParticipantIDs
			err := json.Unmarshal([]byte(tt.in), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual([]int(got), tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnumsRejectUnknownValues(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		target  any
		wantErr bool
	}{
		{"sender user", `"user"`, new(SenderType), false},
		{"sender ai", `"ai"`, new(SenderType), false},
		{"sender system rejected", `"system"`, new(SenderType), true},
		{"status active", `"active"`, new(ConversationStatus), false},
		{"status archived rejected", `"archived"`, new(ConversationStatus), true},
		{"api type anthropic", `"anthropic"`, new(APIType), false},
		{"api type mistral rejected", `"mistral"`, new(APIType), true},
		{"non-string rejected", `42`, new(SenderType), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.in), tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestClampRounds(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{10, 10},
		{11, 10},
		{100, 10},
	}

	for _, tt := range tests {
		if got := ClampRounds(tt.in); got != tt.want {
			t.Errorf("ClampRounds(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestProviderInputValidate(t *testing.T) {
	valid := ProviderInput{
		Name:         "OpenAI GPT-4",
		APIType:      APITypeOpenAI,
		DefaultModel: "gpt-4",
		MaxTokens:    1000,
		Temperature:  0.7,
	}

	tests := []struct {
		name    string
		mutate  func(*ProviderInput)
		wantErr bool
	}{
		{"valid", func(*ProviderInput) {}, false},
		{"missing name", func(in *ProviderInput) { in.Name = "" }, true},
		{"unknown api type", func(in *ProviderInput) { in.APIType = "mistral" }, true},
		{"zero max tokens", func(in *ProviderInput) { in.MaxTokens = 0 }, true},
		{"negative temperature", func(in *ProviderInput) { in.Temperature = -0.1 }, true},
		{"temperature above 2", func(in *ProviderInput) { in.Temperature = 2.1 }, true},
		{"temperature at bounds", func(in *ProviderInput) { in.Temperature = 2.0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
