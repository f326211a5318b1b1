package config

// DefaultSensitiveDomains returns a curated list of domains worth
// flagging during review. These include banking, password managers,
// healthcare portals, authentication providers, crypto exchanges and
// other services whose presence in a history file usually matters to an
// investigation.
func DefaultSensitiveDomains() []string {
	return []string{
		// Banking & Financial
		"chase.com",
		"bankofamerica.com",
		"wellsfargo.com",
		"citi.com",
		"usbank.com",
		"capitalone.com",
		"ally.com",
		"schwab.com",
		"fidelity.com",
		"vanguard.com",
		"etrade.com",
		"robinhood.com",
		"paypal.com",
		"venmo.com",
		"zelle.com",

		// Password Managers
		"1password.com",
		"lastpass.com",
		"bitwarden.com",
		"dashlane.com",
		"keepersecurity.com",
		"nordpass.com",

		// Authentication & Identity
		"accounts.google.com",
		"login.microsoftonline.com",
		"login.live.com",
		"auth0.com",
		"okta.com",
		"onelogin.com",
		"duo.com",

		// Healthcare & Medical
		"mychart.com",
		"kp.org",
		"healthcare.gov",
		"medicare.gov",

		// Government & Tax
		"irs.gov",
		"ssa.gov",
		"login.gov",
		"id.me",
		"turbotax.intuit.com",
		"hrblock.com",

		// Crypto & Trading
		"coinbase.com",
		"binance.com",
		"kraken.com",
		"gemini.com",

		// Anonymity & Messaging
		"torproject.org",
		"protonmail.com",
		"proton.me",
		"tutanota.com",
		"signal.org",
	}
}
