package resources

import (
	"encoding/binary"
	"net/netip"

	"github.com/unifisync/unifisync/internal/model"
)

// prepareNetworkUpdate recomputes the DHCP range when the declared subnet
// moves and the declared item leaves the range unspecified. The existing
// range's offsets from the old subnet's network and broadcast addresses are
// preserved; without an existing range the pool starts at the sixth host and
// ends at the last one.
func prepareNetworkUpdate(desired, existing model.Item) {
	subnet, ok := desired["ip_subnet"].(string)
	if !ok {
		return
	}
	if _, ok := desired["dhcpd_start"]; ok {
		return
	}
	if _, ok := desired["dhcpd_stop"]; ok {
		return
	}
	if current, ok := existing["ip_subnet"].(string); ok && current == subnet {
		return
	}

	startOffset, stopOffset := 6, -1
	if current, ok := existing["ip_subnet"].(string); ok {
		if start, ok := existing["dhcpd_start"].(string); ok {
			if offset, ok := offsetFromNetwork(current, start); ok {
				startOffset = offset
			}
		}
		if stop, ok := existing["dhcpd_stop"].(string); ok {
			if offset, ok := offsetFromBroadcast(current, stop); ok {
				stopOffset = offset
			}
		}
	}

	prefix, err := netip.ParsePrefix(subnet)
	if err != nil || !prefix.Addr().Is4() {
		return
	}

	hostCount := (1 << (32 - prefix.Bits())) - 2
	if hostCount < 1 || startOffset >= hostCount+stopOffset {
		return
	}

	desired["dhcpd_start"] = hostAt(prefix, startOffset-1).String()
	desired["dhcpd_stop"] = hostAt(prefix, stopOffset).String()
}

// hostAt returns the index-th usable host of an IPv4 prefix; negative
// indices count back from the last host.
func hostAt(prefix netip.Prefix, index int) netip.Addr {
	network := addrValue(prefix.Masked().Addr())
	broadcast := network + uint32(1<<(32-prefix.Bits())) - 1
	if index < 0 {
		return valueAddr(broadcast + uint32(int32(index)))
	}
	return valueAddr(network + 1 + uint32(index))
}

// offsetFromNetwork measures an address's distance from its subnet's network
// address.
func offsetFromNetwork(subnet, addr string) (int, bool) {
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil || !prefix.Addr().Is4() {
		return 0, false
	}
	parsed, err := netip.ParseAddr(addr)
	if err != nil || !parsed.Is4() {
		return 0, false
	}
	return int(int64(addrValue(parsed)) - int64(addrValue(prefix.Masked().Addr()))), true
}

// offsetFromBroadcast measures an address's distance from its subnet's
// broadcast address; addresses inside the subnet yield negative offsets.
func offsetFromBroadcast(subnet, addr string) (int, bool) {
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil || !prefix.Addr().Is4() {
		return 0, false
	}
	parsed, err := netip.ParseAddr(addr)
	if err != nil || !parsed.Is4() {
		return 0, false
	}
	broadcast := int64(addrValue(prefix.Masked().Addr())) + int64(1<<(32-prefix.Bits())) - 1
	return int(int64(addrValue(parsed)) - broadcast), true
}

func addrValue(addr netip.Addr) uint32 {
	raw := addr.As4()
	return binary.BigEndian.Uint32(raw[:])
}

func valueAddr(value uint32) netip.Addr {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], value)
	return netip.AddrFrom4(raw)
}
