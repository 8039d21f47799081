package infra

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrNoCNAME reports a host without a CNAME record.
var ErrNoCNAME = errors.New("no cname record")

type DNSResolver interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
}

type netResolver struct {
	resolver *net.Resolver
}

func NewDNSResolver() DNSResolver {
	return &netResolver{resolver: net.DefaultResolver}
}

// LookupCNAME returns the canonical name of host. A host whose canonical name
// is itself has no CNAME and yields ErrNoCNAME, as does NXDOMAIN.
func (r *netResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	cname, err := r.resolver.LookupCNAME(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return "", ErrNoCNAME
		}
		return "", err
	}
	if strings.EqualFold(strings.TrimSuffix(cname, "."), strings.TrimSuffix(host, ".")) {
		return "", ErrNoCNAME
	}
	return cname, nil
}
