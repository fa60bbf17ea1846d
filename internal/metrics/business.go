package metrics

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementTaskMoved increments task move counter
func (m *Metrics) IncrementTaskMoved() {
	m.safeExecute("IncrementTaskMoved", func() {
		m.TaskMovedTotal.Inc()
	})
}

// IncrementInviteSent increments invitation sent counter
func (m *Metrics) IncrementInviteSent() {
	m.safeExecute("IncrementInviteSent", func() {
		m.InviteSentTotal.Inc()
	})
}

// IncrementInviteAccepted increments invitation accepted counter
func (m *Metrics) IncrementInviteAccepted() {
	m.safeExecute("IncrementInviteAccepted", func() {
		m.InviteAcceptedTotal.Inc()
	})
}

// RecordNotificationEmail records one notification email attempt by kind
func (m *Metrics) RecordNotificationEmail(kind string, err error) {
	m.safeExecute("RecordNotificationEmail", func() {
		result := "sent"
		if err != nil {
			result = "error"
		}
		m.NotificationEmailsTotal.WithLabelValues(kind, result).Inc()
	})
}

// SetBoardsTotal sets total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}
