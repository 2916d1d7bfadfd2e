package backend

import (
	"context"
	"log"
)

// Dashboard fetches the dashboard summary. Any failure, including a body
// that is not a JSON object, yields MockDashboard instead of an error.
func (c *Client) Dashboard(ctx context.Context) map[string]any {
	var data map[string]any
	if err := c.getJSON(ctx, DashboardPath, &data); err != nil {
		log.Printf("[backend] Dashboard fetch failed, using mock data: %v", err)
		return MockDashboard()
	}
	if data == nil {
		log.Printf("[backend] Dashboard response was null, using mock data")
		return MockDashboard()
	}
	return data
}

// Notifications fetches pending notifications. Any failure yields an empty list.
func (c *Client) Notifications(ctx context.Context) []any {
	var items []any
	if err := c.getJSON(ctx, NotificationsPath, &items); err != nil {
		log.Printf("[backend] Notifications fetch failed: %v", err)
		return []any{}
	}
	if items == nil {
		return []any{}
	}
	return items
}

// MockDashboard is the placeholder shown when the backend is unavailable.
func MockDashboard() map[string]any {
	return map[string]any{
		"tasks": map[string]any{
			"total":     12,
			"completed": 8,
			"overdue":   2,
			"due_today": 3,
		},
		"ideas": map[string]any{
			"total":     25,
			"processed": 18,
			"recent":    7,
		},
		"notifications": map[string]any{
			"unread": 4,
			"total":  15,
		},
		"integrations": map[string]any{
			"monday_com": map[string]any{
				"status": "connected",
				"items":  8,
			},
			"google_calendar": map[string]any{
				"status": "disconnected",
				"events": 0,
			},
		},
		"recent_activity": []any{
			map[string]any{
				"type":      "task_completed",
				"title":     "Review project proposal",
				"timestamp": "2025-07-18T18:30:00Z",
			},
			map[string]any{
				"type":      "idea_captured",
				"title":     "New feature idea for mobile app",
				"timestamp": "2025-07-18T17:45:00Z",
			},
			map[string]any{
				"type":      "reminder_sent",
				"title":     "Meeting with client in 15 minutes",
				"timestamp": "2025-07-18T17:15:00Z",
			},
		},
	}
}
