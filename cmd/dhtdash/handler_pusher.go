package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/pusher"
)

// pushHandler receives readings posted by the device firmware
func (rm *RouteManager) pushHandler(p pusher.Pusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse form", err.Error())
			return
		}

		reading, err := p.Parse(r.Form)
		switch {
		case errors.Is(err, pusher.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, err.Error(), "")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, "failed to parse reading", err.Error())
			return
		}

		stored, err := rm.Ingestor.Ingest(r.Context(), p.GetDeviceType(), *reading)
		if err != nil {
			log.Printf("❌ Failed to store pushed reading: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to store reading", "")
			return
		}

		log.Printf("✓ Pushed reading %d from %s", stored.EntryID, p.GetDeviceType())

		// ThingSpeak-compatible firmware expects the entry id as plain text
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strconv.Itoa(stored.EntryID)))
	}
}
