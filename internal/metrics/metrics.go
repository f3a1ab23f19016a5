// secq - Threshold security-question vault with decoy secrets
// Copyright (C) 2025 secq-project
//
// This file is part of secq.
//
// secq is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// secq is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with secq. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics exposes the Prometheus counters and histograms an
// operator scrapes from a secq deployment, plus a lightweight in-process
// collector for the same figures. Every metric here is a shape or a
// count — never an answer, a derived key, or recovered plaintext, and
// the recovery outcome label never distinguishes the real secret from a
// decoy (§7, §8 property 5).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// namespace prefixes every metric name: secq_<subsystem>_<name>.
const namespace = "secq"

// Registry is the Prometheus registry every metric in this package
// registers against, and the one served by Handler.
var Registry = prometheus.NewRegistry()
