package messaging

import "context"

type RabbitConfig struct {
	Url    string `mapstructure:"url"`
	VHost  string `mapstructure:"vhost"`
	Prefix string `mapstructure:"prefix"`
}

type Publisher interface {
	Publish(ctx context.Context, topic ChangeTopic, data any) error
}

// InvalidateMessage names a cached read. Key wins over Url and Params when set.
type InvalidateMessage struct {
	Key    string              `json:"key,omitempty"`
	Url    string              `json:"url,omitempty"`
	Params map[string][]string `json:"params,omitempty"`
}
