package service

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// noID is passed to uniqueness checks that have no row to exclude.
var noID = uuid.Nil

var (
	metricAuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamecatalog",
		Name:      "auth_events_total",
		Help:      "Authentication events by outcome",
	}, []string{"event"})

	metricPasswordResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamecatalog",
		Name:      "password_reset_events_total",
		Help:      "Password reset flow transitions",
	}, []string{"step"})

	metricCatalogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamecatalog",
		Name:      "catalog_writes_total",
		Help:      "Catalog create, update and delete operations",
	}, []string{"entity", "op"})
)
