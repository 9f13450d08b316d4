//go:build linux

package router

import (
	"github.com/vishvananda/netlink"
)

// kernelGateway reads the IPv4 default route over netlink
func kernelGateway() (string, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", err
	}
	for _, r := range routes {
		if r.Gw == nil {
			continue
		}
		if r.Dst == nil {
			return r.Gw.String(), nil
		}
		if ones, _ := r.Dst.Mask.Size(); ones == 0 && r.Dst.IP.IsUnspecified() {
			return r.Gw.String(), nil
		}
	}
	return "", ErrNoGateway
}
