// api/model/network.go
package model

import "time"

// NetworkSegment is a logical network zone. Reachability between segments is
// explicit: a segment can only route to IDs listed in ConnectedSegments.
type NetworkSegment struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	CIDRBlocks         []string        `json:"cidr_blocks"`
	ZoneType           ZoneType        `json:"zone_type"`
	TrustLevel         TrustLevel      `json:"trust_level"`
	AllowedProtocols   []string        `json:"allowed_protocols"`
	FirewallRules      []FirewallRule  `json:"firewall_rules,omitempty"`
	ConnectedSegments  map[string]bool `json:"connected_segments"`
	MonitoringEnabled  bool            `json:"monitoring_enabled"`
	EncryptionRequired bool            `json:"encryption_required"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FirewallRule is one allow/deny entry on a segment.
type FirewallRule struct {
	ID       string `json:"id,omitempty"`
	Action   string `json:"action"` // "allow" or "deny"
	Port     int    `json:"port"`   // 0 matches any port
	Protocol string `json:"protocol"`
	Source   string `json:"source,omitempty"`
}

// ConnectedTo reports whether traffic from this segment may reach the given
// segment ID. A segment always reaches itself.
func (s *NetworkSegment) ConnectedTo(segmentID string) bool {
	if s.ID == segmentID {
		return true
	}
	return s.ConnectedSegments[segmentID]
}

// AllowsProtocol reports whether the protocol is in the segment's allow list.
func (s *NetworkSegment) AllowsProtocol(protocol string) bool {
	for _, p := range s.AllowedProtocols {
		if p == protocol {
			return true
		}
	}
	return false
}

// RuleAllows reports whether any firewall rule explicitly allows the
// port/protocol pair.
func (s *NetworkSegment) RuleAllows(port int, protocol string) bool {
	for _, r := range s.FirewallRules {
		if r.Action != "allow" {
			continue
		}
		if r.Protocol != "" && r.Protocol != protocol {
			continue
		}
		if r.Port != 0 && r.Port != port {
			continue
		}
		return true
	}
	return false
}
