package util

import "runtime"

// GetOptimalPoolSize returns the number of parsers per grammar and the number
// of batch workers: min(max(2×NumCPU, 4), 32).
//
// Both pools share this value so a worker never waits on a parser.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// WorkersFor caps the optimal pool size at the number of jobs.
func WorkersFor(jobs int) int {
	n := GetOptimalPoolSize()
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
