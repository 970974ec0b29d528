package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

// invalidRatePolicies contains the values accepted by --invalid-rate.
var invalidRatePolicies = []string{
	string(taxseed.InvalidRateFail),
	string(taxseed.InvalidRateWarn),
	string(taxseed.InvalidRateSkip),
}

// completeInvalidRatePolicies provides shell completion for --invalid-rate values.
func completeInvalidRatePolicies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, policy := range invalidRatePolicies {
		if strings.HasPrefix(policy, toComplete) {
			matches = append(matches, policy)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
