package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taxlot/ledger"
	"taxlot/util"
)

// AccountGroup names a set of accounts treated as one combined history
// for transfer purposes.
type AccountGroup struct {
	Name     string   `yaml:"name"`
	Accounts []string `yaml:"accounts"`
}

type Config struct {
	LocalCurrency ledger.Currency `yaml:"local_currency"`
	AccountGroups []AccountGroup  `yaml:"account_groups"`
}

func DefaultConfig() *Config {
	return &Config{LocalCurrency: ledger.USD}
}

func LoadConfig(fname string) (*Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("Reading config %s: %w", fname, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Parsing config %s: %w", fname, err)
	}
	if cfg.LocalCurrency == ledger.DEFAULT_CURRENCY {
		cfg.LocalCurrency = ledger.USD
	}
	seen := util.NewSet[string]()
	for _, group := range cfg.AccountGroups {
		if group.Name == "" {
			return nil, fmt.Errorf("Config %s: account group with no name", fname)
		}
		for _, acct := range group.Accounts {
			if seen.Has(acct) {
				return nil, fmt.Errorf(
					"Config %s: account %s appears in multiple groups", fname, acct)
			}
			seen.Add(acct)
		}
	}
	return cfg, nil
}

// groupsForLedger resolves the account groups to scan: the configured
// groups, plus one group per ungrouped account found in the entries.
func (c *Config) groupsForLedger(entries []*ledger.Entry) []AccountGroup {
	grouped := util.NewSet[string]()
	groups := make([]AccountGroup, 0, len(c.AccountGroups))
	for _, g := range c.AccountGroups {
		groups = append(groups, g)
		for _, acct := range g.Accounts {
			grouped.Add(acct)
		}
	}
	seen := util.NewSet[string]()
	for _, e := range entries {
		if grouped.Has(e.Account) || seen.Has(e.Account) {
			continue
		}
		seen.Add(e.Account)
		groups = append(groups, AccountGroup{Name: e.Account, Accounts: []string{e.Account}})
	}
	return groups
}
