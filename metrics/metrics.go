package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP request metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "HTTP request duration in seconds",
	}, []string{"method", "path"})
)

// Statement-specific metrics
var (
	SchoolStatementRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_statement_requests_total",
		Help: "Total school statement requests",
	}, []string{"include_invoices"})

	SchoolStatementDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "school_statement_duration_seconds",
		Help: "School statement generation duration",
	})

	StudentStatementRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "student_statement_requests_total",
		Help: "Total student statement requests",
	}, []string{"include_invoices"})

	StudentStatementDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "student_statement_duration_seconds",
		Help: "Student statement generation duration",
	})
)
