// api/audit/forwarder.go
package audit

import (
	"context"
	"fmt"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/util"
)

// RegisterForwarder subscribes the audit service to the engine's security
// event topic so every emitted event is drained to the SIEM.
func RegisterForwarder(eventBus *util.EventBus, topic string, svc Service) {
	eventBus.Subscribe(topic, func(ctx context.Context, event util.Event) error {
		secEvent, ok := event.Payload.(model.SecurityEvent)
		if !ok {
			return fmt.Errorf("unexpected payload type on %s: %T", event.Type, event.Payload)
		}
		return svc.ForwardEvent(ctx, secEvent)
	})
}
