package p2p

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// rendezvous is the DHT provider key nodes advertise themselves under so
// peers can find each other without a full bootstrap list.
const rendezvous = "stakenet-ledger"

// contentID turns an arbitrary string key into the content id the DHT's
// provider records are keyed by.
func contentID(key string) cid.Cid {
	mh, err := multihash.Sum([]byte(key), multihash.SHA2_256, -1)
	if err != nil {
		panic(err)
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// Bootstrap seeds the DHT routing table and starts advertising this node
// under the shared rendezvous key.
func (n *Node) Bootstrap(ctx context.Context) error {
	if err := n.dht.Bootstrap(ctx); err != nil {
		return err
	}
	return n.dht.Provide(ctx, contentID(rendezvous), true)
}
