package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	SessionsStarted     int64
	SessionsCompleted   int64
	SessionsAborted     int64
	QuestionsAsked      int64
	AnswersEmpty        int64
	EvaluationFallbacks int64
	PersistFailures     int64
	APICallsTotal       int64
	APICallsSuccessful  int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

// inc все методы допускают nil получатель, чтобы метрики были необязательны
func (m *Metrics) inc(field *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*field++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsStarted() {
	if m != nil {
		m.inc(&m.SessionsStarted)
	}
}

func (m *Metrics) IncrementSessionsCompleted() {
	if m != nil {
		m.inc(&m.SessionsCompleted)
	}
}

func (m *Metrics) IncrementSessionsAborted() {
	if m != nil {
		m.inc(&m.SessionsAborted)
	}
}

func (m *Metrics) IncrementQuestionsAsked() {
	if m != nil {
		m.inc(&m.QuestionsAsked)
	}
}

func (m *Metrics) IncrementAnswersEmpty() {
	if m != nil {
		m.inc(&m.AnswersEmpty)
	}
}

func (m *Metrics) IncrementEvaluationFallbacks() {
	if m != nil {
		m.inc(&m.EvaluationFallbacks)
	}
}

func (m *Metrics) IncrementPersistFailures() {
	if m != nil {
		m.inc(&m.PersistFailures)
	}
}

func (m *Metrics) IncrementAPICall(success bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

// Snapshot копия счетчиков без мьютекса
type Snapshot struct {
	SessionsStarted     int64
	SessionsCompleted   int64
	SessionsAborted     int64
	QuestionsAsked      int64
	AnswersEmpty        int64
	EvaluationFallbacks int64
	PersistFailures     int64
	APICallsTotal       int64
	APICallsSuccessful  int64
	LastUpdateTime      time.Time
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:     m.SessionsStarted,
		SessionsCompleted:   m.SessionsCompleted,
		SessionsAborted:     m.SessionsAborted,
		QuestionsAsked:      m.QuestionsAsked,
		AnswersEmpty:        m.AnswersEmpty,
		EvaluationFallbacks: m.EvaluationFallbacks,
		PersistFailures:     m.PersistFailures,
		APICallsTotal:       m.APICallsTotal,
		APICallsSuccessful:  m.APICallsSuccessful,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
