// Package contenthost serves a media directory over the listing protocol the content
// client speaks, plus the audio files themselves.
package contenthost

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tapedeck/internal/content"
	"github.com/llehouerou/tapedeck/internal/logging"
	"github.com/llehouerou/tapedeck/internal/media"
)

// MediaPrefix is the path under which audio files are served. A mirror base pointing at
// a host is "http://addr" + MediaPrefix.
const MediaPrefix = "/media"

// Options configures a Host. Zero values select defaults.
type Options struct {
	Metrics *Metrics
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *logrus.Entry
}

// Host serves albums from the top-level directories of a filesystem.
type Host struct {
	fs      afero.Fs
	metrics *Metrics
	log     *logrus.Entry
	router  *mux.Router
}

// New creates a host over fsys, which should be rooted at the media directory.
func New(fsys afero.Fs, opts Options) *Host {
	h := &Host{fs: fsys, metrics: opts.Metrics, log: opts.Logger}
	if h.log == nil {
		h.log = logging.Discard()
	}

	r := mux.NewRouter()
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	r.HandleFunc("/", h.listAlbums).Methods(http.MethodGet)
	r.HandleFunc(MediaPrefix+"/{album}/{track}", h.serveTrack).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/{album}", h.listAlbum).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Use(h.metrics.middleware)
	}
	h.router = r
	return h
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Host) listAlbums(w http.ResponseWriter, _ *http.Request) {
	h.writeListing(w, "/")
}

func (h *Host) listAlbum(w http.ResponseWriter, r *http.Request) {
	album := mux.Vars(r)["album"]
	if err := media.ValidateAlbum(album); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeListing(w, "/"+album)
}

func (h *Host) writeListing(w http.ResponseWriter, dir string) {
	fi, err := h.fs.Stat(dir)
	if err != nil {
		h.fail(w, dir, err)
		return
	}
	if !fi.IsDir() {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	infos, err := afero.ReadDir(h.fs, dir)
	if err != nil {
		h.fail(w, dir, err)
		return
	}

	entries := make([]content.Entry, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		e := content.Entry{Name: info.Name(), Type: content.TypeFile, Size: info.Size()}
		if info.IsDir() {
			e.Type = content.TypeDir
			e.Size = 0
		}
		entries = append(entries, e)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.log.WithError(err).WithField("dir", dir).Debug("write listing")
	}
}

func (h *Host) serveTrack(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ref := media.TrackRef{Album: vars["album"], Track: vars["track"]}
	if err := ref.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := path.Join("/", ref.Album, ref.Track)
	f, err := h.fs.Open(name)
	if err != nil {
		h.fail(w, name, err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		h.fail(w, name, err)
		return
	}
	if fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

// fail maps filesystem errors to 404 or 500.
func (h *Host) fail(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.log.WithError(err).WithField("path", name).Warn("content host error")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
