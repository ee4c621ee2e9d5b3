// Package folio values a multi-asset-class portfolio (equities, mutual
// funds, crypto) in a single reporting currency, from live market quotes.
//
// The core functionalities include:
//   - Quote Fetching: resolving batches of instrument identifiers to
//     current prices in one provider round trip, with process-lifetime
//     memoization and rate-limit-aware exponential backoff.
//   - Valuation: turning holdings plus resolved quotes into per-holding
//     market values and returns, skipping and reporting invalid rows
//     rather than aborting, and summing into exact decimal totals.
//   - Composition: valuing each asset category with its own currency
//     conversion rate and combining the category totals into a grand
//     total, isolating per-category failures.
//
// This package serves as the foundational logic for the `gft` command-line
// tool; the provider subpackages (yahoo, mfapi, fx) implement the external
// data boundaries it consumes.
package folio
