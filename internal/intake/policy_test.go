package intake

import (
	"testing"
)

func TestReadinessPolicy_Ready(t *testing.T) {
	policy := DefaultReadinessPolicy()

	tests := []struct {
		name string
		sig  Signal
		want bool
	}{
		{
			name: "assistant_keyword_case_insensitive",
			sig:  Signal{AssistantText: "GREAT, everything checks out."},
			want: true,
		},
		{
			name: "assistant_keyword_mid_sentence",
			sig:  Signal{AssistantText: "We can proceed whenever you like."},
			want: true,
		},
		{
			name: "user_keyword_with_document",
			sig:  Signal{UserText: "run the coverage check", DocumentPresent: true},
			want: true,
		},
		{
			name: "user_keyword_without_document",
			sig:  Signal{UserText: "run the coverage check"},
			want: false,
		},
		{
			name: "backend_flag_wins_alone",
			sig:  Signal{AssistantText: "Hmm.", AnalysisComplete: true},
			want: true,
		},
		{
			name: "no_signal",
			sig:  Signal{UserText: "what is a copay?", AssistantText: "A copay is a fixed fee."},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Ready(tt.sig); got != tt.want {
				t.Errorf("Ready(%+v) = %v, want %v", tt.sig, got, tt.want)
			}
		})
	}
}

func TestReadinessPolicy_CustomKeywords(t *testing.T) {
	policy := ReadinessPolicy{AssistantKeywords: []string{"launch"}}

	if !policy.Ready(Signal{AssistantText: "Launch when ready... actually, just launch."}) {
		t.Error("custom assistant keyword not honored")
	}
	if policy.Ready(Signal{AssistantText: "Great, all set."}) {
		t.Error("default keywords leaked into custom policy")
	}
}
