package sse

import "time"

// FlashSaleNotifier is the interface workers use to emit flash-sale events.
type FlashSaleNotifier interface {
	NotifyTick(payload any)
	NotifyRefreshed(payload any)
}

// HubNotifier implements FlashSaleNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyTick(payload any) {
	n.publish(EventCountdownTick, payload)
}

func (n *HubNotifier) NotifyRefreshed(payload any) {
	n.publish(EventFlashSaleRefreshed, payload)
}

func (n *HubNotifier) publish(eventType EventType, payload any) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&Event{Event: eventType, Data: payload, Timestamp: time.Now()})
}
