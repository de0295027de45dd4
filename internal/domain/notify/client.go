// internal/domain/notify/client.go
package notify

// Client defines an interface for alerting an instruction agent about
// committed changes. This keeps the application logic decoupled from the
// specific messaging library.
type Client interface {
	Send(recipientChatID int64, text string) error
}

// Disabled is the notifier used when no messaging transport is configured.
type Disabled struct{}

func (Disabled) Send(int64, string) error { return nil }
