// api/dao/directory_loader.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/zt-labs/aegis/api/db"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// Node labels in the external directory graph.
const (
	LabelIdentity = "Identity"
	LabelDevice   = "Device"
	LabelSegment  = "NetworkSegment"
	LabelPolicy   = "AccessPolicy"
)

// DirectoryLoader bulk-loads identities, devices, network segments and
// access policies from an external directory/CMDB graph into the in-memory
// directory store. The graph is the administrative source of truth; the
// engine only consumes the latest snapshot.
type DirectoryLoader struct{}

func NewDirectoryLoader() *DirectoryLoader {
	return &DirectoryLoader{}
}

// LoadAll refreshes every registry from the graph. Each record type is
// loaded independently; a failure on one type aborts the load.
func (dl *DirectoryLoader) LoadAll(ctx context.Context, directory *store.DirectoryStore) error {
	start := time.Now()

	identities, err := loadRecords[model.Identity](ctx, LabelIdentity)
	if err != nil {
		return fmt.Errorf("failed to load identities: %w", err)
	}
	for _, identity := range identities {
		directory.AddIdentity(identity)
	}

	devices, err := loadRecords[model.Device](ctx, LabelDevice)
	if err != nil {
		return fmt.Errorf("failed to load devices: %w", err)
	}
	for _, device := range devices {
		directory.AddDevice(device)
	}

	segments, err := loadRecords[model.NetworkSegment](ctx, LabelSegment)
	if err != nil {
		return fmt.Errorf("failed to load network segments: %w", err)
	}
	for _, segment := range segments {
		directory.AddNetworkSegment(segment)
	}

	policies, err := loadRecords[model.AccessPolicy](ctx, LabelPolicy)
	if err != nil {
		return fmt.Errorf("failed to load access policies: %w", err)
	}
	for _, policy := range policies {
		directory.AddAccessPolicy(policy)
	}

	logger.Info("Directory loaded from graph",
		zap.Int("identities", len(identities)),
		zap.Int("devices", len(devices)),
		zap.Int("segments", len(segments)),
		zap.Int("policies", len(policies)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// loadRecords reads every node with the given label. Records are stored on
// the node as a JSON document under the `doc` property, keyed by `id`.
func loadRecords[T any](ctx context.Context, label string) ([]*T, error) {
	result, err := db.ExecuteReadTransaction(ctx, func(tx neo4j.Transaction) (interface{}, error) {
		records, err := tx.Run("MATCH (n:"+label+") RETURN n.id AS id, n.doc AS doc", nil)
		if err != nil {
			return nil, err
		}

		var out []*T
		for records.Next() {
			record := records.Record()
			doc, ok := record.Get("doc")
			if !ok {
				continue
			}
			docStr, ok := doc.(string)
			if !ok {
				continue
			}
			var value T
			if err := json.Unmarshal([]byte(docStr), &value); err != nil {
				id, _ := record.Get("id")
				logger.Warn("Skipping malformed directory record",
					zap.String("label", label),
					zap.Any("id", id),
					zap.Error(err))
				continue
			}
			out = append(out, &value)
		}
		return out, records.Err()
	})
	if err != nil {
		return nil, err
	}

	return result.([]*T), nil
}
