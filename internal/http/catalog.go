package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/reservation"
)

const monthLayout = "2006-01"

func (s *Server) ListSportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sports, err := s.Catalog.GetAllSports(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sports)
	}
}

// ListPlaygroundsHandler lists every playground with its rating summary.
func (s *Server) ListPlaygroundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := s.Catalog.GetAllPlaygroundsInfo(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

func (s *Server) GetPlaygroundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		first(w, r, func(cb func(*model.PlaygroundInfo, error)) *feed.Listener {
			return s.Catalog.WatchPlaygroundInfo(id, cb)
		})
	}
}

// AvailabilityHandler answers the free playgrounds per reserved slot of a month,
// given as ?month=YYYY-MM. The current month is the default.
func (s *Server) AvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sportID := r.PathValue("id")
		month := time.Now()
		if raw := r.URL.Query().Get("month"); raw != "" {
			parsed, err := time.ParseInLocation(monthLayout, raw, time.Local)
			if err != nil {
				badRequest(w, "invalid month %q, expected YYYY-MM", raw)
				return
			}
			month = parsed
		}
		first(w, r, func(cb func(reservation.AvailabilityMap, error)) *feed.Listener {
			return s.Reservations.WatchAvailablePlaygroundsPerSlot(month, sportID, cb)
		})
	}
}

// EquipmentsHandler lists the equipments of a sport at a center. With start and
// end the availability over that range is computed, excluding reservationId.
func (s *Server) EquipmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sportCenterID, sportID := q.Get("sportCenterId"), q.Get("sportId")
		if sportCenterID == "" || sportID == "" {
			badRequest(w, "sportCenterId and sportId are required")
			return
		}
		if q.Get("start") == "" && q.Get("end") == "" {
			first(w, r, func(cb func([]model.Equipment, error)) *feed.Listener {
				return s.Catalog.WatchAllEquipments(sportCenterID, sportID, cb)
			})
			return
		}

		start, err := model.ParseDateTime(q.Get("start"))
		if err != nil {
			badRequest(w, "%v", err)
			return
		}
		end, err := model.ParseDateTime(q.Get("end"))
		if err != nil {
			badRequest(w, "%v", err)
			return
		}
		var exclude *string
		if id := q.Get("reservationId"); id != "" {
			exclude = &id
		}
		first(w, r, func(cb func([]model.Equipment, error)) *feed.Listener {
			return s.Reservations.WatchAvailableEquipments(sportCenterID, sportID, exclude, start, end, cb)
		})
	}
}
