package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

// legacyPrefixes основные маршруты и алиасы /retell/ для уже настроенных агентов
var legacyPrefixes = []string{"", "/retell"}

// newRouter регистрирует маршруты сервиса. Middleware и /metrics добавляются в main.
func newRouter(health, getFreeSlots, bookAppointment http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	for _, prefix := range legacyPrefixes {
		r.HandleFunc(prefix+"/get-free-slots", getFreeSlots).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/book-appointment", bookAppointment).Methods(http.MethodPost)
	}

	return r
}
