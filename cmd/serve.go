package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/quint/bartime"
	"github.com/jsphweid/quint/content"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/midi"
	"github.com/jsphweid/quint/model"
	"github.com/jsphweid/quint/voice"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, defaults to QUINT_SERVE_ADDR")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the fits and voice endpoints",
	Long:  `Serves POST /fits and POST /voice as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		log.Printf("Listening on %v\n", addr)
		return http.ListenAndServe(addr, NewHandler(cfg.CorsOrigins))
	},
}

const requestIDHeader = "X-Request-Id"

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		log.Printf("%v %v %v\n", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// NewHandler routes the endpoints behind CORS and request IDs.
func NewHandler(origins []string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/fits", HandleFits).Methods("POST")
	router.HandleFunc("/voice", HandleVoice).Methods("POST")
	router.Use(withRequestID)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Could not encode response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	res := model.ErrorResponse{Error: err.Error()}
	status := http.StatusBadRequest

	var indexed *indexedError
	if errors.As(err, &indexed) {
		res.Index = &indexed.index
	}
	var domain *qerrors.Error
	if errors.As(err, &domain) {
		res.Code = string(domain.Code)
		res.Metadata = domain.Metadata
		status = domain.Code.HTTPStatus()
	}
	writeJSON(w, status, res)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("Could not unmarshal request body: %w", err)
	}
	return nil
}

func HandleFits(w http.ResponseWriter, r *http.Request) {
	var input model.FitsRequestBody
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if input.Capacity == "" {
		input.Capacity = cfg.DefaultCapacity
	}
	res, err := fits(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleVoice(w http.ResponseWriter, r *http.Request) {
	var input model.VoiceRequestBody
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if input.Capacity == "" {
		input.Capacity = cfg.DefaultCapacity
	}
	v, err := buildVoice(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, describeVoice(v))
}

func buildVoice(req model.VoiceRequestBody) (*voice.Voice, error) {
	capacity, err := parseTime("capacity", req.Capacity)
	if err != nil {
		return nil, err
	}
	v, err := voice.New(capacity)
	if err != nil {
		return nil, err
	}
	for i, n := range req.Notes {
		offset, err := parseTime("offset", n.Offset)
		if err != nil {
			return nil, &indexedError{i, err}
		}
		duration, err := parseTime("duration", n.Duration)
		if err != nil {
			return nil, &indexedError{i, err}
		}
		var pitch content.Pitch
		if n.Key != nil {
			pitch = midi.Key(*n.Key)
		}
		note, err := content.Spell(pitch, duration)
		if err != nil {
			return nil, &indexedError{i, err}
		}
		if n.Grace {
			err = v.PutOptional(offset, note)
		} else {
			err = v.PutPrincipal(offset, note)
		}
		if err != nil {
			return nil, &indexedError{i, err}
		}
	}
	return v, nil
}

func describeVoice(v *voice.Voice) model.VoiceResponse {
	res := model.VoiceResponse{
		ID:     v.ID.String(),
		Length: v.Length().String(),
		Fill:   v.Fill().String(),
		Chords: []model.ChordDTO{},
	}
	v.Each(func(offset *bartime.Time, set *content.PrincipalSet) bool {
		c := model.ChordDTO{
			Offset:   offset.String(),
			Duration: set.Duration().String(),
			Key:      set.Key(),
		}
		for _, o := range set.OptionalList() {
			c.Decorations = append(c.Decorations, o.Key())
		}
		res.Chords = append(res.Chords, c)
		return true
	})
	return res
}
