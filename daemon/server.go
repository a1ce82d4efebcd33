package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"go.uber.org/zap"

	"github.com/nimbustrace/nimbus/emitter"
)

// A Daemon collects entity documents sent by instrumented processes and
// serves them to a viewer over HTTP.
type Daemon struct {
	store      *TraceStore
	portNumber int
	udpAddr    string
	logger     *zap.Logger
}

// NewDaemon creates a new Daemon.
func NewDaemon() *Daemon {
	return &Daemon{
		store:   NewTraceStore(),
		udpAddr: emitter.DefaultDaemonAddr,
		logger:  zap.NewNop(),
	}
}

// WithPortNumber sets the HTTP port of the viewer.
func (d *Daemon) WithPortNumber(portNumber int) *Daemon {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the viewer server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	d.portNumber = portNumber

	return d
}

// WithUDPAddr sets the address the collector listens on.
func (d *Daemon) WithUDPAddr(addr string) *Daemon {
	d.udpAddr = addr
	return d
}

// WithLogger sets the daemon logger.
func (d *Daemon) WithLogger(logger *zap.Logger) *Daemon {
	d.logger = logger
	return d
}

// Store exposes the backing trace store.
func (d *Daemon) Store() *TraceStore {
	return d.store
}

// StartUDP starts the collector listener and returns the bound address.
func (d *Daemon) StartUDP() net.Addr {
	pc, err := net.ListenPacket("udp", d.udpAddr)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Collecting traces on udp://%s\n", pc.LocalAddr())

	go d.serveUDP(pc)

	return pc.LocalAddr()
}

func (d *Daemon) serveUDP(pc net.PacketConn) {
	buf := make([]byte, 256*1024)

	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			d.logger.Error("read datagram", zap.Error(err))
			return
		}

		if err := d.ingest(buf[:n]); err != nil {
			d.logger.Error("ingest datagram", zap.Error(err))
		}
	}
}

// ingest decodes one datagram and files the document it carries.
func (d *Daemon) ingest(packet []byte) error {
	body, found := strings.CutPrefix(string(packet), emitter.Header)
	if !found {
		return errors.New("datagram does not start with the wire header")
	}

	var doc emitter.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return err
	}

	d.store.Put(doc)

	return nil
}

// StartServer starts the viewer as a web server with a custom port if
// wanted.
func (d *Daemon) StartServer() net.Addr {
	r := d.router()

	actualPort := ":0"
	if d.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(d.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Viewing traces with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return listener.Addr()
}

func (d *Daemon) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/traces", d.listTraces)
	r.HandleFunc("/api/trace/{id}", d.showTrace)
	r.HandleFunc("/api/inspect/{id}", d.inspectTrace)
	r.HandleFunc("/api/resource", d.listResources)
	r.HandleFunc("/api/profile", d.collectProfile)

	return r
}

func (d *Daemon) listTraces(w http.ResponseWriter, _ *http.Request) {
	bytes, err := json.Marshal(d.store.TraceIDs())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (d *Daemon) showTrace(w http.ResponseWriter, r *http.Request) {
	docs := d.findTraceOr404(w, mux.Vars(r)["id"])
	if docs == nil {
		return
	}

	bytes, err := json.Marshal(docs)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (d *Daemon) inspectTrace(w http.ResponseWriter, r *http.Request) {
	docs := d.findTraceOr404(w, mux.Vars(r)["id"])
	if docs == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(docs)
	serializer.SetMaxDepth(3)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (d *Daemon) findTraceOr404(
	w http.ResponseWriter,
	id string,
) []emitter.Document {
	docs := d.store.Trace(id)

	if docs == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Trace not found"))
		dieOnErr(err)
	}

	return docs
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (d *Daemon) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (d *Daemon) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
