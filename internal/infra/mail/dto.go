package mail

import "gopkg.in/gomail.v2"

type CampaignSummaryEmailData struct {
	TenantID     string
	RunID        string
	Criteria     string
	Found        int
	Processed    int
	ChannelValid int
	MessagesSent int
	QuotaUsed    int
	DailyCap     int
	EndReason    string
	Duration     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	send func(m *gomail.Message) error
}
