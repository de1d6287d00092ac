package keys

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/barnybug/evinput/lib/evdev"
	"github.com/barnybug/evinput/lib/keyboard"
	"github.com/barnybug/evinput/lib/logging"

	"github.com/gorilla/mux"
)

// status is written by the read loop and read by HTTP handlers.
type status struct {
	sync.Mutex
	Device    string                 `json:"device"`
	Path      string                 `json:"path"`
	Connected bool                   `json:"connected"`
	Grabbed   bool                   `json:"grabbed"`
	Modifiers keyboard.ModifierState `json:"modifiers"`
	Keys      int                    `json:"keys"`
}

func (s *status) connected(path string, grabbed bool) {
	s.Lock()
	s.Path = path
	s.Connected = true
	s.Grabbed = grabbed
	s.Unlock()
}

func (s *status) disconnected() {
	s.Lock()
	s.Connected = false
	s.Grabbed = false
	s.Modifiers = keyboard.ModifierState{}
	s.Unlock()
}

func (s *status) key(mods keyboard.ModifierState) {
	s.Lock()
	s.Modifiers = mods
	s.Keys++
	s.Unlock()
}

func (s *status) snapshot() map[string]interface{} {
	s.Lock()
	defer s.Unlock()
	return map[string]interface{}{
		"device":    s.Device,
		"path":      s.Path,
		"connected": s.Connected,
		"grabbed":   s.Grabbed,
		"modifiers": s.Modifiers,
		"keys":      s.Keys,
	}
}

func errorResponse(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), 500)
}

func jsonResponse(w http.ResponseWriter, obj interface{}) {
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	err := enc.Encode(obj)
	if err != nil {
		errorResponse(w, err)
	}
}

func apiIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/html")
	fmt.Fprintf(w, "<html>evinput is listening</html>")
}

func router(locator *evdev.Locator, st *status) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", apiIndex)
	router.HandleFunc("/devices", func(w http.ResponseWriter, r *http.Request) {
		devices, err := locator.ListDevices()
		if err != nil {
			errorResponse(w, err)
			return
		}
		jsonResponse(w, devices)
	}).Methods("GET")
	router.HandleFunc("/keyboard/status", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, st.snapshot())
	}).Methods("GET")
	return router
}

func httpEndpoint(addr string, handler http.Handler) {
	logging.Infof("Listening on %s", addr)
	err := http.ListenAndServe(addr, handler)
	if err != nil {
		logging.Errorf("http endpoint: %s", err)
	}
}
