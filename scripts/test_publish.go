//go:build ignore
// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type calibrationPoint struct {
	ModelX float64 `json:"modelX"`
	ModelY float64 `json:"modelY"`
	ModelZ float64 `json:"modelZ"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Name   string  `json:"name"`
}

type recalculateEvent struct {
	RequestID     uuid.UUID          `json:"request_id"`
	CalibrationID *uuid.UUID         `json:"calibration_id,omitempty"`
	Name          string             `json:"name,omitempty"`
	Points        []calibrationPoint `json:"points,omitempty"`
	Activate      bool               `json:"activate"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	calibrationID := flag.String("id", "", "recalculate a stored calibration instead of the sample points")
	activate := flag.Bool("activate", false, "activate the result")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := recalculateEvent{
		RequestID: uuid.New(),
		Name:      "sample plant",
		Activate:  *activate,
	}
	if *calibrationID != "" {
		id, err := uuid.Parse(*calibrationID)
		if err != nil {
			log.Fatalf("Invalid calibration id: %v", err)
		}
		event.CalibrationID = &id
	} else {
		// Углы модели завода
		event.Points = []calibrationPoint{
			{ModelX: -292.64232281821876, ModelZ: 160.30996285669252, Lat: 31.23751753, Lon: 121.48489491, Name: "SW"},
			{ModelX: 106.19976971292328, ModelZ: 160.30996285669252, Lat: 31.24152923, Lon: 121.48310892, Name: "SE"},
			{ModelX: -292.64232281821876, ModelZ: 812.9764577390581, Lat: 31.24006104, Lon: 121.49237845, Name: "NW"},
			{ModelX: 106.19976971292328, ModelZ: 812.9764577390581, Lat: 31.24407274, Lon: 121.49059247, Name: "NE"},
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:calibration:recalculate",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: stream:calibration:recalculate\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)

	fmt.Printf("\nWaiting for response in stream:calibration:done...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:calibration:done", "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if response["request_id"] == event.RequestID.String() {
						fmt.Printf("\nResponse received\n")
						prettyJSON, _ := json.MarshalIndent(response, "", "  ")
						fmt.Printf("%s\n", prettyJSON)
						return
					}
				}
			}
		}
	}
}
