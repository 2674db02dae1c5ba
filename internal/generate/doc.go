// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package generate produces the synthetic relational dataset the rest of
the system consumes: users, a product catalog, two years of order
history and the order line items, written as CSV files.

# Catalog Generation

Product names come from an OpenAI-compatible LLM when one is
configured. Each category is filled in batches; a batch that fails or
returns unparseable JSON falls back to a scripted catalog, so a run
always completes. LLM batches additionally spawn "similar product"
variants (brand swaps, resized packages, adjusted prices) which become
the substitution candidates used when order items are flagged as
substituted.

# Determinism

All randomness is driven by a single seeded source, so a given seed
reproduces the same dataset byte for byte apart from order timestamps,
which are anchored to the current date. Fake words for the scripted
catalog come from a gofakeit faker seeded with the same seed.

# Shopping Behavior

Orders are spread over the configured history window and biased toward
each user's preferred shopping day. Basket composition scales with
household size, mixes random picks with affinity groups (pasta meals,
breakfast, snacks, produce) and caps out at 25 line items. A small
configurable share of items is marked substituted, swapping in a
variant when the catalog has one.

# Usage

	cfg := config.Load().Generate
	summary, err := generate.New(cfg, llmClient).Run(ctx)

Run writes users.csv, products.csv, orders.csv and order_items.csv into
cfg.OutputDir and returns row counts. Pass a nil chat client to force
the scripted catalog.
*/
package generate
