package linklab

/*------------------------------------------------------------------
 *
 * Purpose:   	Announce the TCP receiver using DNS-SD
 *
 * Description:
 *
 *     Lets an emitter on the same network find a receiver without
 *     typing in an address and port.
 *
 *     This uses the pure-Go github.com/brutella/dnssd package for
 *     mDNS/DNS-SD service announcement without requiring any system
 *     daemon.
 */

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

const DNS_SD_SERVICE = "_linklab._tcp"

func dnsSDDefaultServiceName() string {
	var hostname, hostnameErr = os.Hostname()
	if hostnameErr != nil {
		return "Link receiver"
	}

	// on some systems, an FQDN is returned; remove domain part
	hostname, _, _ = strings.Cut(hostname, ".")

	return "Link receiver on " + hostname
}

// dnsSDAnnounce responds to DNS-SD queries until ctx is cancelled.
func dnsSDAnnounce(ctx context.Context, name string, port int, logger *log.Logger) error {
	if name == "" {
		name = dnsSDDefaultServiceName()
	}

	var cfg = dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: DNS_SD_SERVICE,
		Port: port,
	}

	var sv, svErr = dnssd.NewService(cfg)
	if svErr != nil {
		return fmt.Errorf("DNS-SD: failed to create service: %w", svErr)
	}

	var rp, rpErr = dnssd.NewResponder()
	if rpErr != nil {
		return fmt.Errorf("DNS-SD: failed to create responder: %w", rpErr)
	}

	if _, err := rp.Add(sv); err != nil {
		return fmt.Errorf("DNS-SD: failed to add service: %w", err)
	}

	logger.Info("DNS-SD announcing", "port", port, "name", name, "type", DNS_SD_SERVICE)

	var err = rp.Respond(ctx)
	if ctx.Err() != nil {
		return nil
	}

	return err
}
