package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicService_GetAddresses(t *testing.T) {
	for name, tc := range map[string]struct {
		s        BasicService
		expected []string
	}{
		"empty":  {BasicService{}, []string{}},
		"single": {BasicService{Addresses: []string{"localhost:2112"}}, []string{"localhost:2112"}},
		"dup": {BasicService{Addresses: []string{":2112", "127.0.0.1:2113", ":2112"}},
			[]string{":2112", "127.0.0.1:2113"}},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.s.GetAddresses())
		})
	}
}
