package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var maxDevices int = 500
var readClients int = 50
var readsPerClient int = 40
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

var deviceTypes = []string{"Environmental", "Security", "Power", "Other"}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	// Phase 1: a write burst. Every create invalidates the devices entry,
	// so this measures how well trailing refetches coalesce under load.
	startTime = time.Now()
	wg := sync.WaitGroup{}
	deviceIDs := make([]string, maxDevices)
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			deviceIDs[i] = insertDevice(i)
			fmt.Printf("\rinserted device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rinserted %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	// Phase 2: concurrent readers against the cached endpoints.
	startTime = time.Now()
	wg = sync.WaitGroup{}
	for c := 0; c < readClients; c++ {
		wg.Add(1)
		go func() {
			for r := 0; r < readsPerClient; r++ {
				doRead()
			}
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	totalReads := readClients * readsPerClient
	fmt.Printf(
		"\rdid %v reads: used time=%v seconds, throughput=%v action/second\n",
		totalReads, usedTime.Seconds(), float64(totalReads)/usedTime.Seconds(),
	)

	// Phase 3: clean up the burst devices.
	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			deleteDevice(deviceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rdeleted %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	return rnd.Int31n(100000)%2 == 0
}

func insertDevice(i int) string {
	payload := map[string]string{
		"name":     fmt.Sprintf("Burst Sensor %04d", i),
		"location": fmt.Sprintf("Rack %d", i%20),
		"type":     deviceTypes[rnd.Intn(len(deviceTypes))],
	}
	jsonData, _ := json.Marshal(payload)

	// server-side ids are random in a small space, so a burst this size
	// will hit the occasional collision; just ask again
	for attempt := 0; attempt < 10; attempt++ {
		resp, err := http.Post(fmt.Sprintf("http://%s/api/devices", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			panic(err)
		}

		if resp.StatusCode != http.StatusCreated {
			resp.Body.Close()
			continue
		}

		var created struct {
			ID string `json:"id"`
		}
		err = json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()
		if err != nil {
			panic(err)
		}
		return created.ID
	}
	panic(fmt.Sprintf("insert device %v: no attempt succeeded", i))
}

func doRead() {
	var url string
	if flipCoin() {
		url = fmt.Sprintf("http://%s/api/devices", httpHostPort)
	} else {
		url = fmt.Sprintf("http://%s/api/sensor-data?hours=24", httpHostPort)
	}

	resp, err := http.Get(url)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	// 429 is acceptable here; the point is to saturate the limiter
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusTooManyRequests {
		panic(fmt.Sprintf("read: unexpected status %v", resp.StatusCode))
	}
}

func deleteDevice(deviceID string) {
	if deviceID == "" {
		return
	}

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("http://%s/api/devices/%s", httpHostPort, deviceID), nil)
	if err != nil {
		panic(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
}
