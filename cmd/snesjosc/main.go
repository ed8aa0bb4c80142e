package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/assets"
	"github.com/Zash60/snes-josc/bridge"
	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/guest"
	"github.com/Zash60/snes-josc/romloader"
	"github.com/Zash60/snes-josc/standalone"
	"github.com/Zash60/snes-josc/storage"
)

type flags struct {
	addr     string
	assets   string
	rom      string
	crt      bool
	headless bool
	data     string
	set      map[string]bool
}

func main() {
	var f flags
	flag.StringVar(&f.addr, "addr", "", "listen address for guest assets and the bridge")
	flag.StringVar(&f.assets, "assets", "", "directory holding the guest page (default <data>/assets)")
	flag.StringVar(&f.rom, "rom", "", "path to a ROM to launch right away")
	flag.BoolVar(&f.crt, "crt", false, "enable the scanline overlay")
	flag.BoolVar(&f.headless, "headless", false, "serve the guest without opening a window")
	flag.StringVar(&f.data, "data", "", "data directory (default user config dir)")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func run(f flags) error {
	system := api.SNES()
	storage.Init(system.DataDirName)
	if f.data != "" {
		storage.SetBaseDir(f.data)
	}
	if err := storage.EnsureDirectories(); err != nil {
		return err
	}
	if err := storage.CreateConfigIfMissing(); err != nil {
		log.Printf("Warning: failed to create config: %v", err)
	}

	// a broken config is reported in the window, headless falls back to defaults
	cfg, cfgErr := storage.LoadConfig()
	serveCfg := cfg
	if cfgErr != nil || serveCfg == nil {
		if f.headless {
			log.Printf("Warning: failed to load config, using defaults: %v", cfgErr)
		}
		serveCfg = storage.DefaultConfig()
	}
	if f.set["addr"] {
		serveCfg.Server.Addr = f.addr
	}
	if f.set["assets"] {
		serveCfg.Server.AssetsDir = f.assets
	}
	if f.set["crt"] {
		serveCfg.Video.CRTMode = f.crt
	}

	assetsDir := serveCfg.Server.AssetsDir
	if assetsDir == "" {
		dir, err := storage.GetAssetsDir()
		if err != nil {
			return err
		}
		assetsDir = dir
	}

	slots, err := storage.OpenSlotStore()
	if err != nil {
		return err
	}

	ui := dispatch.NewLoop()
	pool := dispatch.NewPool(2, 16)
	defer pool.Close()

	hub := guest.NewHub(ui, serveCfg.Server.Origin)
	defer hub.Close()

	var notify api.Notifier = bridge.LogNotifier{}
	var toast *standalone.Notification
	if !f.headless {
		toast = standalone.NewNotification()
		notify = toast
	}

	saves := bridge.NewSaveStateBridge(slots, hub, notify, ui, pool)
	roms := bridge.NewRomTransferBridge(hub, notify, ui, pool, saves)
	roms.SetExtensions(system.Extensions)
	router := bridge.NewCallRouter(saves, func() {
		log.Printf("Guest ready")
	})
	hub.SetHandler(router.HandleCall)

	mux := http.NewServeMux()
	mux.Handle("/assets/", assets.Handler(os.DirFS(assetsDir), serveCfg.Server.Origin))
	mux.Handle("/bridge", hub)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, system.EntryPage, http.StatusFound)
	})

	ln, err := net.Listen("tcp", serveCfg.Server.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	guestURL := guestPageURL(serveCfg.Server.Origin, ln.Addr(), system.EntryPage)
	log.Printf("Serving guest at %s", guestURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if f.headless {
		roms.OnLaunch(func(name string) {
			log.Printf("Launched %s", name)
		})
		if f.rom != "" {
			ui.Post(func() { roms.Transfer(romloader.File(f.rom)) })
		}
		g.Go(func() error {
			if err := ui.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		return g.Wait()
	}

	// the window owns the main goroutine
	runErr := standalone.Run(standalone.Options{
		Config:    serveCfg,
		ConfigErr: cfgErr,
		UI:        ui,
		Guest:     hub,
		Link:      hub,
		Saves:     saves,
		Roms:      roms,
		Notify:    toast,
		ROM:       f.rom,
		GuestURL:  guestURL,
	})
	stop()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// guestPageURL is where a browser or web view should load the guest page.
// The virtual origin is a *.localhost name, which resolves to loopback.
func guestPageURL(origin string, addr net.Addr, entry string) string {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil || origin == "" {
		return "http://" + addr.String() + entry
	}
	return "http://" + net.JoinHostPort(origin, port) + entry
}
