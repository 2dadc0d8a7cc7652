// Command liquidityd hosts the Zone Validator shards owned by this node: it
// opens the local event journal, joins the etcd-backed shard lease cluster,
// connects to the NATS Streaming status topic, and serves the
// gateway-facing gRPC boundary plus the operational HTTP endpoints.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/stan.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"

	liquidity "github.com/TrellixVulnTeam/liquidity-service-DTMZ"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonedb"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zoneengine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "liquidityd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := liquidity.LoadConfig()
	if err != nil {
		return err
	}

	if err := liquidity.InitLogging(cfg.DebugLevel); err != nil {
		return err
	}

	db, err := zonedb.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening zone journal: %w", err)
	}
	defer db.Close()

	etcd, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.EtcdHosts,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("connecting to etcd: %w", err)
	}
	defer etcd.Close()

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}
	defer nc.Close()

	sc, err := stan.Connect(cfg.NATSCluster, "liquidityd-"+hostname(), stan.NatsConn(nc))
	if err != nil {
		return fmt.Errorf("connecting to nats streaming: %w", err)
	}
	defer sc.Close()

	health := liquidity.NewHealthServer(liquidity.BuildInfo{Version: "0.1.0"})

	if err := zoneengine.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	srv := liquidity.NewServer(cfg, db, etcd, sc, health)
	defer srv.Stop(context.Background())

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
		grpc.StreamInterceptor(grpc_prometheus.StreamServerInterceptor),
	)
	health.RegisterService(grpcServer)
	grpc_prometheus.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.RPCListen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.RPCListen, err)
	}
	go grpcServer.Serve(lis)

	health.SetReady("", true)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%+v", health.Version(r.Context()))
	})

	if cfg.AdminJWTPublicKeyPath != "" {
		pemBytes, err := os.ReadFile(cfg.AdminJWTPublicKeyPath)
		if err != nil {
			return fmt.Errorf("reading admin JWT public key: %w", err)
		}
		admin, err := liquidity.NewAdminAuthenticator(pemBytes)
		if err != nil {
			return fmt.Errorf("loading admin JWT public key: %w", err)
		}
		mux.Handle("/akka-management", admin.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
	}

	return http.ListenAndServe(cfg.HealthListen, mux)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
