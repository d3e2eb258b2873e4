// Package matching implements capacitated deferred acceptance
// (Gale-Shapley) between drivers and charter trips.
//
// Drivers propose down their ranked bid list. Every trip shares one
// preference list, the seniority order, and differs only by the number of
// open seats. A trip with an open seat accepts; a full trip keeps its most
// senior holders and bumps the least senior one when a more senior driver
// proposes. A driver who runs out of bids is matched to itself.
//
// When drivers propose in the same seniority order the trips use, bumping
// cannot happen. Result.Evictions therefore signals a caller that broke that
// ordering.
package matching
