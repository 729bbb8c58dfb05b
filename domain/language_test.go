package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "english paragraph",
			content: "The quarterly report shows that revenue increased because customers renewed their subscriptions earlier than expected.",
			want:    "en",
		},
		{
			name:    "french paragraph",
			content: "Le rapport trimestriel montre que le chiffre d'affaires a augmenté parce que les clients ont renouvelé leurs abonnements plus tôt que prévu.",
			want:    "fr",
		},
		{name: "empty", content: "", want: ""},
		{name: "digits only", content: "42 1337", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.New(t).Equal(tc.want, DetectLanguage(tc.content))
		})
	}
}
