package api

import (
	"sync"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// Subscribe returns a channel of auth state changes and a function that
// cancels the subscription and closes the channel. The current state is
// delivered immediately. A slow reader only sees the latest state.
func (c *Client) Subscribe() (<-chan *models.User, func()) {
	ch := make(chan *models.User, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.user
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

func (c *Client) setSession(token string, user *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
	for _, ch := range c.subs {
		deliver(ch, user)
	}
}

// deliver replaces whatever the subscriber has not read yet with u.
func deliver(ch chan *models.User, u *models.User) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
