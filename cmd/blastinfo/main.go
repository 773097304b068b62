// Package main reports which device blast would dispatch to and which tuning
// parameters each routine would resolve there.
//
// Usage:
//
//	# Probe the default WebGPU adapter
//	blastinfo
//
//	# Probe the simulated device instead
//	blastinfo -sim
//
//	# Apply an offline tuner snapshot before resolving
//	blastinfo -snapshot tuned.blastdb
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/openfluke/blast/device"
	"github.com/openfluke/blast/tuning"
	"github.com/openfluke/blast/webgpu"
)

// Report is the JSON output format.
type Report struct {
	DeviceID   string                              `json:"device_id"`
	DeviceName string                              `json:"device_name"`
	Routines   map[string]map[string]tuning.Params `json:"routines"`
}

func main() {
	var (
		useSim   = flag.Bool("sim", false, "probe the simulated device instead of WebGPU")
		snapshot = flag.String("snapshot", "", "tuning snapshot to merge before resolving")
	)
	flag.Parse()

	db := tuning.NewDatabase()
	if *snapshot != "" {
		f, err := os.Open(*snapshot)
		if err != nil {
			log.Fatalf("open snapshot: %v", err)
		}
		if err := db.ReadSnapshot(f); err != nil {
			log.Fatalf("read snapshot: %v", err)
		}
		f.Close()
	}

	var dev device.Device
	if *useSim {
		dev = device.NewSimDevice()
	} else {
		gpu, err := webgpu.New()
		if err != nil {
			log.Printf("no WebGPU adapter (%v), falling back to simulated device", err)
			dev = device.NewSimDevice()
		} else {
			dev = gpu
		}
	}

	report := Report{
		DeviceID:   dev.ID(),
		DeviceName: dev.Name(),
		Routines:   map[string]map[string]tuning.Params{},
	}
	precisions := []device.Precision{device.Single, device.Double, device.ComplexSingle, device.ComplexDouble}
	for _, op := range []string{"AXPY", "SCAL", "COPY"} {
		report.Routines[op] = map[string]tuning.Params{}
		for _, p := range precisions {
			report.Routines[op][p.String()] = db.Lookup(dev.Name(), op, p)
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}
