// Command liquidity-cli is the operator CLI for inspecting zone
// diagnostics, modelled on lncli's urfave/cli command table and go-pretty
// result rendering.
//
// version/health dial a running liquidityd's gRPC boundary and call the
// standard grpc.health.v1.Health service it registers. zone/events are
// offline diagnostics: they open the node's BoltDB event journal directly
// and replay it, the same zonedb.DB.Replay path the validator itself uses,
// without going over the wire.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonedb"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

func main() {
	app := cli.NewApp()
	app.Name = "liquidity-cli"
	app.Usage = "inspect and administer a liquidity validator node"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rpcserver",
			Value: "localhost:8443",
			Usage: "host:port of the liquidityd gRPC boundary (version, health)",
		},
		cli.StringFlag{
			Name:  "datadir",
			Value: "data",
			Usage: "directory holding liquidityd's zone.db journal (zone, events)",
		},
	}
	app.Commands = []cli.Command{
		zoneCommand,
		eventsCommand,
		versionCommand,
		healthCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "liquidity-cli: %v\n", err)
		os.Exit(1)
	}
}

var zoneCommand = cli.Command{
	Name:      "zone",
	Usage:     "replay a zone's journal and show its current diagnostics summary",
	ArgsUsage: "zone-id",
	Action:    showZone,
}

var eventsCommand = cli.Command{
	Name:      "events",
	Usage:     "list a zone's persisted event envelopes in insertion order",
	ArgsUsage: "zone-id",
	Action:    showEvents,
}

var versionCommand = cli.Command{
	Name:   "version",
	Usage:  "query liquidityd's reported serving status over gRPC",
	Action: showVersion,
}

var healthCommand = cli.Command{
	Name:      "health",
	Usage:     "check a specific gRPC service's serving status",
	ArgsUsage: "service-name",
	Action:    showHealth,
}

func showZone(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected a zone id", 1)
	}
	zoneID := zonewire.ZoneID(ctx.Args().Get(0))

	db, err := zonedb.Open(ctx.GlobalString("datadir"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("opening journal: %v", err), 1)
	}
	defer db.Close()

	var zone *zonewire.Zone
	balances := make(map[zonewire.AccountID]zonewire.Decimal)
	var lastSeq uint64
	var haveSeq bool

	err = db.Replay(zoneID, func(seq uint64, ev *zonewire.ZoneEventEnvelope) error {
		applyForCLI(&zone, balances, ev)
		lastSeq, haveSeq = seq, true
		return nil
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("replaying zone %s: %v", zoneID, err), 1)
	}
	if zone == nil {
		return cli.NewExitError(fmt.Sprintf("zone %s has no ZoneCreated event", zoneID), 1)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"zone_id", zone.ID})
	t.AppendRow(table.Row{"equity_account_id", zone.EquityAccountID})
	t.AppendRow(table.Row{"members", len(zone.Members)})
	t.AppendRow(table.Row{"accounts", len(zone.Accounts)})
	t.AppendRow(table.Row{"transactions", len(zone.Transactions)})
	t.AppendRow(table.Row{"created", time.UnixMilli(zone.Created).UTC()})
	t.AppendRow(table.Row{"expires", time.UnixMilli(zone.Expires).UTC()})
	if haveSeq {
		t.AppendRow(table.Row{"last_sequence", lastSeq})
	}
	for id, bal := range balances {
		t.AppendRow(table.Row{"balance[" + string(id) + "]", bal.String()})
	}
	t.Render()
	return nil
}

func showEvents(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected a zone id", 1)
	}
	zoneID := zonewire.ZoneID(ctx.Args().Get(0))

	db, err := zonedb.Open(ctx.GlobalString("datadir"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("opening journal: %v", err), 1)
	}
	defer db.Close()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Seq", "Type", "Timestamp"})

	err = db.Replay(zoneID, func(seq uint64, ev *zonewire.ZoneEventEnvelope) error {
		t.AppendRow(table.Row{
			seq,
			ev.ZoneEvent.MsgType().String(),
			time.UnixMilli(ev.Timestamp).UTC(),
		})
		return nil
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("replaying zone %s: %v", zoneID, err), 1)
	}
	t.Render()
	return nil
}

func showVersion(ctx *cli.Context) error {
	return checkHealth(ctx, "")
}

func showHealth(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected a gRPC service name", 1)
	}
	return checkHealth(ctx, ctx.Args().Get(0))
}

func checkHealth(ctx *cli.Context, service string) error {
	dialCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, ctx.GlobalString("rpcserver"),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("dialing %s: %v", ctx.GlobalString("rpcserver"), err), 1)
	}
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	resp, err := client.Check(dialCtx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("health check failed: %v", err), 1)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"server", ctx.GlobalString("rpcserver")})
	t.AppendRow(table.Row{"service", service})
	t.AppendRow(table.Row{"status", resp.Status.String()})
	t.Render()
	return nil
}

// applyForCLI folds one event into a minimal zone/balance view, just the
// subset showZone needs. It deliberately does not import the zoneengine
// package's Apply: that fold lives behind the validator's single-writer
// boundary, and this is a read-only offline tool walking the same wire
// events through an independent, much smaller projection.
func applyForCLI(zone **zonewire.Zone, balances map[zonewire.AccountID]zonewire.Decimal, env *zonewire.ZoneEventEnvelope) {
	switch ev := env.ZoneEvent.(type) {
	case *zonewire.ZoneCreatedEvent:
		z := ev.Zone
		*zone = &z
		for id := range z.Accounts {
			balances[id] = zonewire.Zero()
		}
	case *zonewire.ZoneNameChangedEvent:
		(*zone).Name = ev.Name
	case *zonewire.MemberCreatedEvent:
		m := ev.Member
		(*zone).Members[m.ID] = &m
	case *zonewire.MemberUpdatedEvent:
		m := ev.Member
		(*zone).Members[m.ID] = &m
	case *zonewire.AccountCreatedEvent:
		a := ev.Account
		(*zone).Accounts[a.ID] = &a
		balances[a.ID] = zonewire.Zero()
	case *zonewire.AccountUpdatedEvent:
		a := ev.Account
		(*zone).Accounts[a.ID] = &a
	case *zonewire.TransactionAddedEvent:
		t := ev.Transaction
		(*zone).Transactions[t.ID] = &t
		balances[t.From] = balances[t.From].Sub(t.Value)
		balances[t.To] = balances[t.To].Add(t.Value)
	}
}
