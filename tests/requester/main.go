// requester submits checkouts against a running service. One request in five
// reuses the previous Idempotency-Key and must come back with the same order.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const body = `{
	"session_id": "load-test",
	"guest_email": "load@example.com",
	"items": [{"product_id": 1, "quantity": 1}],
	"shipping_address": {"first_name": "Load", "last_name": "Test", "street": "Calle Mayor 1", "city": "Madrid", "postal_code": "28013", "country": "ES"},
	"payment_method": "cash",
	"shipping_method": "standard"
}`

type created struct {
	OrderNumber string `json:"order_number"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "service base url")
	flag.Parse()

	var (
		mu      sync.Mutex
		lastKey = uuid.NewString()
	)
	for {
		var wg sync.WaitGroup
		for range rand.Intn(10) {
			mu.Lock()
			key := lastKey
			if rand.Intn(5) != 0 {
				key = uuid.NewString()
				lastKey = key
			}
			mu.Unlock()

			wg.Go(func() { checkout(*baseURL, key) })
		}
		wg.Wait()
		time.Sleep(20 * time.Millisecond)
	}
}

func checkout(baseURL, key string) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/orders", bytes.NewBufferString(body))
	if err != nil {
		log.Println("build request:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Println("request failed:", err)
		return
	}
	defer resp.Body.Close()

	var out created
	json.NewDecoder(resp.Body).Decode(&out)
	log.Println("POST /orders", key, "->", resp.Status, out.OrderNumber)
}
