// Package bnet provides peer-discovery helpers that sit outside the single
// connection core: address-pool management and connection pooling stay out
// of scope, but DNS seeding is still useful as an edge a caller can use to
// obtain that first address.
package bnet

import (
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"time"

	"github.com/bsv-blockchain/go-p2psync/chaincfg"
	"github.com/bsv-blockchain/go-p2psync/wire"
)

const (
	secondsIn3Days int32 = 24 * 60 * 60 * 3
	secondsIn4Days int32 = 24 * 60 * 60 * 4
)

// OnSeed is invoked with the addresses discovered through DNS seeding.
type OnSeed func(addrs []*wire.NetAddress)

// LookupFunc resolves a hostname to a set of IPs; net.LookupIP matches
// this signature.
type LookupFunc func(string) ([]net.IP, error)

// SeedFromDNS queries every DNS seed configured for chainParams and
// invokes seedFn with the addresses each seed returns. Each seed is
// queried concurrently and failures are independent of one another.
func SeedFromDNS(chainParams *chaincfg.Params, reqServices wire.ServiceFlag, lookupFn LookupFunc, seedFn OnSeed) {
	for _, dnsseed := range chainParams.DNSSeeds {
		host := dnsseed.Host
		if dnsseed.HasFiltering && reqServices != wire.SFNodeNetwork {
			host = fmt.Sprintf("x%x.%s", uint64(reqServices), dnsseed.Host)
		}

		go func(host string) {
			seedPeers, err := lookupFn(host)
			if err != nil || len(seedPeers) == 0 {
				return
			}

			intPort, _ := strconv.Atoi(chainParams.DefaultPort)

			addresses := make([]*wire.NetAddress, len(seedPeers))
			randSource := rand.NewPCG(uint64(time.Now().UnixNano()), uint64(secondsIn4Days))
			r := rand.New(randSource)

			for i, ip := range seedPeers {
				// bitcoind seeds with addresses from a time randomly
				// selected between 3 and 7 days ago.
				discovered := time.Now().Add(-1 * time.Second * time.Duration(secondsIn3Days+r.Int32N(secondsIn4Days)))
				addresses[i] = wire.NewNetAddressTimestamp(discovered, 0, ip, uint16(intPort))
			}

			seedFn(addresses)
		}(host)
	}
}
