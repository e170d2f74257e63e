package main

import (
	"bytes"
	"database/sql"
	"flag"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/hb9tf/radcal/heatmap"

	// Blind import support for sqlite3.
	_ "github.com/mattn/go-sqlite3"
)

var (
	listen     = flag.String("listen", ":8443", "")
	certFile   = flag.String("certFile", "", "Path of the file containing the certificate (including the chained intermediates and root) for the TLS connection.")
	keyFile    = flag.String("keyFile", "", "Path of the file containing the key for the TLS connection.")
	sqliteFile = flag.String("sqliteFile", "/tmp/radcal", "File path of the sqlite DB file to use.")
)

const (
	runsEndpoint    = "/radcal/v1/runs"
	cellsEndpoint   = "/radcal/v1/runs/:id/cells"
	heatmapEndpoint = "/radcal/v1/runs/:id/heatmap"
)

type radcalServer struct {
	db *sql.DB
}

func (s *radcalServer) runsHandler(c *gin.Context) {
	runs, err := heatmap.Runs(s.db)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *radcalServer) cellsHandler(c *gin.Context) {
	cells, err := heatmap.Cells(s.db, c.Param("id"), c.Query("matrix"))
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if len(cells) == 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, cells)
}

func (s *radcalServer) heatmapHandler(c *gin.Context) {
	img, err := heatmap.MatrixImage(s.db, c.Param("id"), c.Query("matrix"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func main() {
	// Set defaults for glog flags. Can be overridden via cmdline.
	flag.Set("logtostderr", "false")
	flag.Set("stderrthreshold", "WARNING")
	flag.Set("v", "1")
	// Parse flags globally.
	flag.Parse()

	db, err := sql.Open("sqlite3", *sqliteFile)
	if err != nil {
		glog.Exitf("unable to open sqlite DB %q: %s", *sqliteFile, err)
	}
	defer db.Close()

	s := &radcalServer{db: db}
	router := gin.Default()
	router.GET(runsEndpoint, s.runsHandler)
	router.GET(cellsEndpoint, s.cellsHandler)
	router.GET(heatmapEndpoint, s.heatmapHandler)

	if *certFile != "" || *keyFile != "" {
		glog.Fatal(router.RunTLS(*listen, *certFile, *keyFile))
	} else {
		glog.Infoln("Resorting to serving HTTP because there was no certificate and key defined.")
		glog.Fatal(router.Run(*listen))
	}

	glog.Flush()
}
