package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/reducely/constants"
	"github.com/jsphweid/reducely/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the reducer over HTTP",
	Long:  `Serves the reducer over HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func intParam(q url.Values, name string, into *int) error {
	if v := q.Get(name); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%v must be an integer", name)
		}
		*into = n
	}
	return nil
}

func boolParam(q url.Values, name string, into *bool) error {
	if v := q.Get(name); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%v must be a boolean", name)
		}
		*into = b
	}
	return nil
}

func optionsFromQuery(q url.Values) (model.Options, error) {
	opts := model.DefaultOptions()
	if err := intParam(q, "staves", &opts.Staves); err != nil {
		return opts, err
	}
	if err := intParam(q, "handspan", &opts.Handspan); err != nil {
		return opts, err
	}
	if err := intParam(q, "max-phrase-length", &opts.PhraseLimit); err != nil {
		return opts, err
	}
	if err := boolParam(q, "merge-by-average", &opts.MergeByAverage); err != nil {
		return opts, err
	}
	if err := boolParam(q, "no-merge", &opts.NoMerge); err != nil {
		return opts, err
	}
	if err := boolParam(q, "no-adjust-octaves", &opts.NoAdjustOctaves); err != nil {
		return opts, err
	}
	return opts, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}

func HandleReduce(w http.ResponseWriter, r *http.Request) {
	requestId := uuid.New().String()

	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	out, dropped, err := Reduce(body, opts)
	if err != nil {
		fmt.Printf("request %v failed: %v\n", requestId, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.recordare.musicxml+xml")
	w.Header().Set("X-Dropped-Phrases", strconv.Itoa(dropped))
	w.Write(out)
	fmt.Printf("request %v: reduced %v bytes to %v bytes\n", requestId, len(body), len(out))
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/reduce", HandleReduce).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":"+constants.GetPort(), handler))
}
