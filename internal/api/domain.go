package api

type Domain string

const (
	DomainBalance    Domain = "balance"
	DomainCredit     Domain = "credit"
	DomainDelegation Domain = "delegation"
	DomainEvent      Domain = "event"

	// DomainTimestamp writes the progress rows the watermark is derived from.
	// It always runs last.
	DomainTimestamp Domain = "timestamp"
)

// FactDomains are indexed in parallel before the progress rows are written.
var FactDomains = []Domain{
	DomainBalance,
	DomainCredit,
	DomainDelegation,
	DomainEvent,
}

func (d Domain) String() string {
	return string(d)
}

func (d Domain) IsFactDomain() bool {
	for _, domain := range FactDomains {
		if d == domain {
			return true
		}
	}
	return false
}

func ParseDomain(s string) (Domain, bool) {
	d := Domain(s)
	if d == DomainTimestamp || d.IsFactDomain() {
		return d, true
	}
	return "", false
}
