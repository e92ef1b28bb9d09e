// api/engine/segmentation_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

func segmentedDirectory() *store.DirectoryStore {
	directory := store.NewDirectoryStore()
	directory.AddNetworkSegment(&model.NetworkSegment{
		ID:                "segment-workstations",
		Name:              "Workstations",
		CIDRBlocks:        []string{"10.0.10.0/24"},
		ZoneType:          model.ZoneInternal,
		TrustLevel:        model.TrustMedium,
		AllowedProtocols:  []string{"tcp", "udp"},
		ConnectedSegments: map[string]bool{"segment-servers": true},
		MonitoringEnabled: false,
	})
	directory.AddNetworkSegment(&model.NetworkSegment{
		ID:               "segment-servers",
		Name:             "Application Servers",
		CIDRBlocks:       []string{"10.0.100.0/24"},
		ZoneType:         model.ZoneRestricted,
		TrustLevel:       model.TrustHigh,
		AllowedProtocols: []string{"tcp"},
		FirewallRules: []model.FirewallRule{
			{Action: "allow", Port: 443, Protocol: "tcp"},
			{Action: "allow", Port: 5432, Protocol: "tcp"},
		},
		ConnectedSegments: map[string]bool{},
		MonitoringEnabled: true,
	})
	directory.AddNetworkSegment(&model.NetworkSegment{
		ID:                "segment-guest",
		Name:              "Guest WiFi",
		CIDRBlocks:        []string{"192.168.50.0/24"},
		ZoneType:          model.ZoneDMZ,
		TrustLevel:        model.TrustUntrusted,
		AllowedProtocols:  []string{"tcp"},
		ConnectedSegments: map[string]bool{"segment-servers": true},
	})
	return directory
}

func TestMicroSegmentationCheck_AllowedPath(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "10.0.10.100", "10.0.100.50", 443, "tcp")

	assert.True(t, result.Allowed)
	assert.Equal(t, "traffic_permitted", result.Reason)
	assert.Equal(t, "segment-workstations", result.SourceSegment)
	assert.Equal(t, "segment-servers", result.DestinationSegment)
	assert.True(t, result.MonitoringRequired)
}

func TestMicroSegmentationCheck_ReachabilityIsDirectional(t *testing.T) {
	directory := segmentedDirectory()

	// Servers never declared a route back to the workstations.
	result := MicroSegmentationCheck(directory, "10.0.100.50", "10.0.10.100", 443, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "segments_not_connected", result.Reason)
}

func TestMicroSegmentationCheck_UnknownSegments(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "172.31.0.9", "10.0.100.50", 443, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "source_segment_unknown", result.Reason)

	result = MicroSegmentationCheck(directory, "10.0.10.100", "172.31.0.9", 443, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "destination_segment_unknown", result.Reason)
	assert.Equal(t, "segment-workstations", result.SourceSegment)

	result = MicroSegmentationCheck(directory, "not-an-ip", "10.0.100.50", 443, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "source_segment_unknown", result.Reason)
}

func TestMicroSegmentationCheck_ProtocolGate(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "10.0.10.100", "10.0.100.50", 443, "udp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "protocol_not_allowed", result.Reason)
}

func TestMicroSegmentationCheck_FirewallGate(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "10.0.10.100", "10.0.100.50", 22, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "no_firewall_rule", result.Reason)
}

func TestMicroSegmentationCheck_InternalDefaultAllow(t *testing.T) {
	directory := store.NewDirectoryStore()
	directory.AddNetworkSegment(&model.NetworkSegment{
		ID:                "segment-eng",
		CIDRBlocks:        []string{"10.1.0.0/24"},
		ZoneType:          model.ZoneInternal,
		TrustLevel:        model.TrustMedium,
		AllowedProtocols:  []string{"tcp"},
		ConnectedSegments: map[string]bool{"segment-it": true},
	})
	directory.AddNetworkSegment(&model.NetworkSegment{
		ID:               "segment-it",
		CIDRBlocks:       []string{"10.2.0.0/24"},
		ZoneType:         model.ZoneInternal,
		TrustLevel:       model.TrustMedium,
		AllowedProtocols: []string{"tcp"},
	})

	// No firewall rule on the destination, but internal-to-internal
	// traffic falls back to allowed.
	result := MicroSegmentationCheck(directory, "10.1.0.5", "10.2.0.5", 8080, "tcp")
	assert.True(t, result.Allowed)
	assert.Equal(t, "traffic_permitted", result.Reason)
	assert.False(t, result.MonitoringRequired)
}

func TestMicroSegmentationCheck_UntrustedToTrustedBlocked(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "192.168.50.20", "10.0.100.50", 443, "tcp")
	assert.False(t, result.Allowed)
	assert.Equal(t, "untrusted_to_trusted_blocked", result.Reason)
}

func TestMicroSegmentationCheck_SegmentReachesItself(t *testing.T) {
	directory := segmentedDirectory()

	result := MicroSegmentationCheck(directory, "10.0.10.5", "10.0.10.50", 445, "tcp")
	assert.True(t, result.Allowed)
	assert.Equal(t, "traffic_permitted", result.Reason)
}
