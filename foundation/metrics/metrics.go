// Package metrics declares the prometheus collectors for the node.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Requests counts the http requests served, partitioned by route and
// status code.
var Requests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "node_http_requests_total",
		Help: "Number of http requests served.",
	},
	[]string{"route", "status"},
)

// Panics counts the panics recovered by the panic middleware.
var Panics = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "node_http_panics_total",
		Help: "Number of panics recovered while serving requests.",
	},
)

// Submissions counts the block submissions processed by the node,
// partitioned by verdict.
var Submissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "node_block_submissions_total",
		Help: "Number of block submissions processed, by verdict.",
	},
	[]string{"verdict"},
)

// Rejections counts rejected submissions by their reject reason.
var Rejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "node_block_rejections_total",
		Help: "Number of rejected block submissions, by reason.",
	},
	[]string{"reason"},
)

// TreeBlocks reports the number of blocks currently held in the chain tree.
var TreeBlocks = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "node_tree_blocks",
		Help: "Number of blocks in the chain tree, forks included.",
	},
)
