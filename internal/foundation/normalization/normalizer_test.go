package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type policy string

const (
	policyClean policy = "clean"
	policyKeep  policy = "keep"
)

func newPolicyNormalizer() *Normalizer[policy] {
	return NewNormalizer(map[string]policy{
		"clean": policyClean,
		"keep":  policyKeep,
	}, policyClean)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newPolicyNormalizer()

	tests := []struct {
		name     string
		input    string
		expected policy
	}{
		{"exact match", "keep", policyKeep},
		{"case insensitive", "KEEP", policyKeep},
		{"with spaces", "  clean ", policyClean},
		{"unknown falls back", "wipe", policyClean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newPolicyNormalizer()

	got, err := n.Parse(" Keep ")
	require.NoError(t, err)
	require.Equal(t, policyKeep, got)

	got, err = n.Parse("")
	require.NoError(t, err)
	require.Equal(t, policyClean, got)

	_, err = n.Parse("wipe")
	require.Error(t, err)
	require.Contains(t, err.Error(), "clean, keep")
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	n := newPolicyNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	require.Equal(t, []string{"clean", "keep"}, n.ValidKeys())
}
