package azure

import (
	"net/http"
	"time"
)

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithCredential(credential string) Option {
	return func(c *Client) {
		c.credential = credential
	}
}

func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}
