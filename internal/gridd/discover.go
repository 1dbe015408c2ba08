package gridd

import (
	"errors"
	"fmt"

	"github.com/hashicorp/mdns"
)

const serviceName = "_gridd._tcp"

// Discover browses the local network for an advertised gridd daemon and
// returns the first instance's host:port.
func Discover() (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	addr := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case addr <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()

	err := mdns.Lookup(serviceName, entries)
	close(entries)
	<-done
	if err != nil {
		return "", fmt.Errorf("mdns lookup: %w", err)
	}
	select {
	case a := <-addr:
		return a, nil
	default:
		return "", errors.New("no gridd daemon found on the local network")
	}
}
