// api/engine/segmentation.go
package engine

import (
	"net/netip"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// SegmentationResult is the outcome of one micro-segmentation check.
type SegmentationResult struct {
	Allowed            bool   `json:"allowed"`
	Reason             string `json:"reason"`
	SourceSegment      string `json:"source_segment,omitempty"`
	DestinationSegment string `json:"destination_segment,omitempty"`
	MonitoringRequired bool   `json:"monitoring_required"`
}

// MicroSegmentationCheck decides whether traffic from srcIP to dstIP on the
// given port/protocol may cross segment boundaries. Both addresses must
// resolve to a known segment; reachability is only ever granted through the
// source segment's explicit connected-segments set. A malformed address
// resolves to no segment and therefore denies.
func MicroSegmentationCheck(directory *store.DirectoryStore, srcIP, dstIP string, port int, protocol string) *SegmentationResult {
	src := resolveSegment(directory, srcIP)
	if src == nil {
		return &SegmentationResult{Allowed: false, Reason: "source_segment_unknown"}
	}
	dst := resolveSegment(directory, dstIP)
	if dst == nil {
		return &SegmentationResult{
			Allowed:       false,
			Reason:        "destination_segment_unknown",
			SourceSegment: src.ID,
		}
	}

	result := &SegmentationResult{
		SourceSegment:      src.ID,
		DestinationSegment: dst.ID,
	}

	if !src.ConnectedTo(dst.ID) {
		result.Reason = "segments_not_connected"
		return result
	}

	if !dst.AllowsProtocol(protocol) {
		result.Reason = "protocol_not_allowed"
		return result
	}

	// Internal-to-internal traffic defaults to allowed when no explicit
	// firewall rule covers the port/protocol pair.
	internalToInternal := src.ZoneType == model.ZoneInternal && dst.ZoneType == model.ZoneInternal
	if !dst.RuleAllows(port, protocol) && !internalToInternal {
		result.Reason = "no_firewall_rule"
		return result
	}

	if src.TrustLevel == model.TrustUntrusted &&
		(dst.TrustLevel == model.TrustHigh || dst.TrustLevel == model.TrustVerified) {
		result.Reason = "untrusted_to_trusted_blocked"
		return result
	}

	result.Allowed = true
	result.Reason = "traffic_permitted"
	result.MonitoringRequired = src.MonitoringEnabled || dst.MonitoringEnabled
	return result
}

// resolveSegment returns the first registered segment whose CIDR blocks
// contain the address. Segments are expected to carry non-overlapping CIDRs.
func resolveSegment(directory *store.DirectoryStore, ip string) *model.NetworkSegment {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	for _, segment := range directory.Segments() {
		for _, block := range segment.CIDRBlocks {
			prefix, err := netip.ParsePrefix(block)
			if err != nil {
				continue
			}
			if prefix.Contains(addr) {
				return segment
			}
		}
	}
	return nil
}
