// Package resilience holds fault-tolerance building blocks. The
// circuitbreaker subpackage protects database calls made by the background
// worker's periodic sweeps.
package resilience
