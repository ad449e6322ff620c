// Command flagrant-bombardier is a synthetic load generator exercising the
// Evaluation API's get_feature contract through concurrent goroutines,
// reporting the resulting per-value hit distribution so the distributor's
// bounded-deviation distribution law (spec §8) can be observed under real
// concurrent HTTP load.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/mbuczko/flagrant/internal/flagclient"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "flagrant evaluation server base URL")
		envID     = flag.Int64("env", 0, "environment id")
		feature   = flag.String("feature", "", "feature name to evaluate")
		requests  = flag.Int("n", 1000, "total number of evaluations to issue")
		workers   = flag.Int("c", 10, "number of concurrent workers")
	)
	flag.Parse()

	if *envID == 0 || *feature == "" {
		fmt.Fprintln(os.Stderr, "usage: flagrant-bombardier -env ID -feature NAME [-n COUNT] [-c WORKERS]")
		os.Exit(2)
	}

	hits := make(map[string]int)
	var mu sync.Mutex
	var errCount int

	perWorker := *requests / *workers
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			session := flagclient.NewSession(*serverURL)
			session.SetEnvironment(&flagstore.Environment{ID: *envID})
			ident := fmt.Sprintf("bombardier-%d", workerID)
			for i := 0; i < perWorker; i++ {
				value, err := session.GetFeature(ident, *feature)
				mu.Lock()
				if err != nil {
					errCount++
				} else {
					hits[value.Value]++
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	fmt.Printf("requests: %d, errors: %d\n", perWorker*(*workers), errCount)
	for value, count := range hits {
		fmt.Printf("  %-20s %d\n", value, count)
	}
}
