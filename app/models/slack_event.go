package models

import "time"

// ProcessedSlackEvent marks an inbound Slack event delivery as handled.
// Rows are inserted at most once per event id and never updated or deleted,
// which is what makes Slack's redelivery safe to accept.
type ProcessedSlackEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_processed_slack_events_event_id" json:"event_id"`
	ProcessedAt time.Time `gorm:"autoCreateTime;index" json:"processed_at"`
}

// SlackMessageLink maps a Slack (channel, message ts) coordinate to the
// sales entry it created. Deleting the Slack message cascades through this
// link and removes the entry again. The composite unique index is the sole
// guard against two racing deliveries creating two entries for one message.
type SlackMessageLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Channel   string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_slack_message_links_channel_ts,priority:1" json:"channel"`
	MessageTS string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_slack_message_links_channel_ts,priority:2" json:"message_ts"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	RepName   string    `gorm:"type:varchar(150);not null" json:"rep_name"`
	Qty       int       `gorm:"not null" json:"qty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
