package main

import (
	"log"
	"net/http"
)

const defaultFeedResults = 10

// feedsHandler proxies the raw ThingSpeak feed
func (rm *RouteManager) feedsHandler(w http.ResponseWriter, r *http.Request) {
	if rm.Feeds == nil {
		writeError(w, http.StatusServiceUnavailable, "ThingSpeak channel is not configured", "")
		return
	}

	results, err := parseResults(r, defaultFeedResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	resp, err := rm.Feeds.GetFeeds(r.Context(), results)
	if err != nil {
		log.Printf("❌ Error fetching ThingSpeak: %v", err)
		writeError(w, http.StatusInternalServerError, "could not fetch data from ThingSpeak", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// lastHandler returns the newest raw feed or null
func (rm *RouteManager) lastHandler(w http.ResponseWriter, r *http.Request) {
	if rm.Feeds == nil {
		writeError(w, http.StatusServiceUnavailable, "ThingSpeak channel is not configured", "")
		return
	}

	feed, err := rm.Feeds.GetLast(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching ThingSpeak last: %v", err)
		writeError(w, http.StatusInternalServerError, "could not fetch the latest reading", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"last": feed})
}
