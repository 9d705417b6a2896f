/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package metrics holds the prometheus instruments incremented by the
// tree operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (

	// STAGED TREE

	VertreeStagedAppendTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_staged_append_total",
			Help: "Number of leaves appended to staged trees.",
		},
	)
	VertreeStagedCommitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_staged_commit_total",
			Help: "Number of commit operations.",
		},
	)
	VertreeStagedSiblingPathTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_staged_sibling_path_total",
			Help: "Number of sibling paths generated.",
		},
	)
	VertreeStagedPendingLeaves = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vertree_staged_pending_leaves",
			Help: "Leaves currently staged and not yet committed.",
		},
	)

	// SPARSE SUBTREE

	VertreeSparseBranchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_sparse_branch_total",
			Help: "Number of branches ingested by deep subtrees.",
		},
	)
	VertreeSparseProveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_sparse_prove_total",
			Help: "Number of proofs generated by deep subtrees.",
		},
	)
	VertreeSparseUpdateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertree_sparse_update_total",
			Help: "Number of value updates applied to deep subtrees.",
		},
	)
)

// Register adds every instrument of this package to the given registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(
		VertreeStagedAppendTotal,
		VertreeStagedCommitTotal,
		VertreeStagedSiblingPathTotal,
		VertreeStagedPendingLeaves,
		VertreeSparseBranchTotal,
		VertreeSparseProveTotal,
		VertreeSparseUpdateTotal,
	)
}
