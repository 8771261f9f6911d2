package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ordergen fires synthetic order-created webhooks at a running server, for
// eyeballing the decrement path under load.

var simulationSKUs = []string{
	"NCHOGBLKS", "NCHOGBLKM", "NCHOGBLKL", "NCHOGBLKXL",
	"NCHOGGRYS", "NCHOGGRYM", "NCTEEBLKM",
	"UNKNOWN-SKU", // exercises the skip path
}

type orderLine struct {
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity"`
}

type webOrder struct {
	ID        string      `json:"id"`
	LineItems []orderLine `json:"line_items"`
}

func main() {
	target := flag.String("target", "http://localhost:8080/webhooks/orders", "webhook endpoint")
	total := flag.Int("n", 50, "number of orders to send")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	var okCount, failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			order := webOrder{
				ID: uuid.NewString(),
				LineItems: []orderLine{
					{SKU: simulationSKUs[rand.Intn(len(simulationSKUs))], Quantity: 1 + rand.Intn(3)},
				},
			}
			payload, _ := json.Marshal(order)

			resp, err := client.Post(*target, "application/json", bytes.NewReader(payload))
			if err != nil {
				log.Printf("order %s: %v", order.ID, err)
				failCount.Add(1)
				return
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				okCount.Add(1)
			} else {
				log.Printf("order %s: status %d", order.ID, resp.StatusCode)
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== ORDER GENERATOR RESULTS ==========")
	fmt.Printf("Orders sent:      %d\n", *total)
	fmt.Printf("Acknowledged:     %d\n", okCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=============================================")
}
