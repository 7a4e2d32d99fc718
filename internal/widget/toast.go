package widget

// ShowToast displays msg and schedules it to be hidden after the toast delay.
// A new toast replaces the previous one and its timer, so an older timer can
// never hide a newer message.
func (c *Controller) ShowToast(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	c.toastSeq++
	seq := c.toastSeq

	c.state.Toast = msg
	c.state.ToastVisible = true
	c.surface.ShowToast(msg)

	c.toastTimer = c.clock.AfterFunc(c.toastDelay, func() {
		c.hideToast(seq)
	})
}

func (c *Controller) hideToast(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// stale timer
	if c.closed || seq != c.toastSeq {
		return
	}

	c.toastTimer = nil
	c.state.ToastVisible = false
	c.surface.HideToast()
}
