package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizroom/quizroom-go/quizroom"
)

var errQuit = errors.New("quit")

const (
	screenLobby = "lobby"
	screenRoom  = "room"
	screenGame  = "game"
)

type route struct {
	screen   string
	password string
}

// terminal implements quizroom.Navigator and quizroom.Notifier: navigation
// intents are queued for the screen loop, notices go straight to stdout.
type terminal struct {
	routes chan route
}

func newTerminal() *terminal {
	return &terminal{routes: make(chan route, 4)}
}

func (t *terminal) GoToLobby()               { t.push(route{screen: screenLobby}) }
func (t *terminal) GoToRoom(password string) { t.push(route{screen: screenRoom, password: password}) }
func (t *terminal) GoToGame(password string) { t.push(route{screen: screenGame, password: password}) }
func (t *terminal) Notify(message string)    { fmt.Println("! " + message) }

func (t *terminal) push(r route) {
	select {
	case t.routes <- r:
	default:
	}
}

func run(ctx context.Context, cfg *Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
	if cfg.verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.WarnLevel)
	}

	store := quizroom.NewMemoryStore()
	id := quizroom.EnsureIdentity(store)
	if cfg.name != "" {
		id.Name = cfg.name
		store.Save(id)
	}

	clientCfg := quizroom.DefaultConfig()
	clientCfg.URL = cfg.server
	client := quizroom.NewClient(clientCfg)
	client.SetLogger(quizroom.NewZerologLogger(logger))
	client.OnDisconnect(func(err error) {
		fmt.Printf("! connection lost: %v\n", err)
		cancel()
	})

	if err := client.Connect(ctx, id); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	fmt.Printf("connected to %s as %s (%s)\n", cfg.server, id.Name, id.ID)

	term := newTerminal()
	input := make(chan string)
	go readInput(input)

	r := route{screen: screenLobby}
	for {
		var next route
		var err error
		switch r.screen {
		case screenLobby:
			next, err = runLobby(ctx, client, term, input)
		case screenRoom:
			next, err = runRoom(ctx, client, term, input, r.password)
		case screenGame:
			next, err = runGame(ctx, client, term, input, r.password)
		default:
			return fmt.Errorf("unknown screen: %s", r.screen)
		}
		if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
			fmt.Println("bye")
			return nil
		}
		if err != nil {
			return err
		}
		r = next
	}
}

func runLobby(ctx context.Context, client *quizroom.Client, term *terminal, input <-chan string) (route, error) {
	screen := quizroom.NewLobbyScreen(client, term, term)
	screen.Attach()
	defer screen.Detach()

	fmt.Println("lobby: create <passphrase> | join <passphrase> | quit")
	for {
		select {
		case <-ctx.Done():
			return route{}, ctx.Err()
		case next := <-term.routes:
			return next, nil
		case line, ok := <-input:
			if !ok {
				return route{}, errQuit
			}
			cmd, arg := splitCommand(line)
			switch cmd {
			case "":
			case "create":
				if err := screen.CreateRoom(ctx, arg); err != nil {
					fmt.Printf("! %v\n", err)
				}
			case "join":
				if err := screen.JoinRoom(ctx, arg); err != nil {
					fmt.Printf("! %v\n", err)
				}
			case "quit":
				return route{}, errQuit
			default:
				fmt.Println("commands: create <passphrase> | join <passphrase> | quit")
			}
		}
	}
}

func runRoom(ctx context.Context, client *quizroom.Client, term *terminal, input <-chan string, password string) (route, error) {
	screen := quizroom.NewRoomScreen(client, term, term, password)
	screen.OnChange(func(snap quizroom.RoomSnapshot) {
		renderRoom(client.Identity(), snap)
	})
	defer func() {
		exitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := screen.Exit(exitCtx); err != nil {
			fmt.Printf("! leave: %v\n", err)
		}
	}()

	fmt.Printf("room %q: start | leave | quit\n", password)
	if err := screen.Enter(ctx); err != nil {
		fmt.Printf("! %v\n", err)
	}

	for {
		select {
		case <-ctx.Done():
			return route{}, ctx.Err()
		case next := <-term.routes:
			return next, nil
		case line, ok := <-input:
			if !ok {
				return route{}, errQuit
			}
			cmd, _ := splitCommand(line)
			switch cmd {
			case "":
			case "start":
				if err := screen.StartGame(ctx); err != nil {
					fmt.Printf("! %v\n", err)
				}
			case "leave":
				if err := screen.Leave(ctx); err != nil {
					fmt.Printf("! %v\n", err)
				}
			case "quit":
				return route{}, errQuit
			default:
				fmt.Println("commands: start | leave | quit")
			}
		}
	}
}

func runGame(ctx context.Context, client *quizroom.Client, term *terminal, input <-chan string, password string) (route, error) {
	screen := quizroom.NewGameScreen(client, term, term, password, nil)
	screen.OnChange(renderGame)
	screen.Reveal().OnTick(func(remaining int) {
		fmt.Printf("  revealing... %d\n", remaining)
	})
	screen.Reveal().OnAnswerable(func() {
		fmt.Println("  answers open! pick 1-4")
	})
	defer screen.Exit()

	fmt.Printf("game %q: 1-4 to answer | quit\n", password)
	if err := screen.Enter(ctx); err != nil {
		fmt.Printf("! %v\n", err)
	}

	for {
		select {
		case <-ctx.Done():
			return route{}, ctx.Err()
		case next := <-term.routes:
			return next, nil
		case line, ok := <-input:
			if !ok {
				return route{}, errQuit
			}
			cmd, _ := splitCommand(line)
			switch cmd {
			case "":
			case "quit":
				return route{}, errQuit
			default:
				n, err := strconv.Atoi(cmd)
				if err != nil {
					fmt.Println("type an option number (1-4) or quit")
					continue
				}
				if err := screen.SubmitAnswer(ctx, n-1); err != nil {
					fmt.Printf("! %v\n", err)
				} else {
					fmt.Printf("answer %d sent (%ds left)\n", n, screen.TimeLeft())
				}
			}
		}
	}
}

func renderRoom(self quizroom.Identity, snap quizroom.RoomSnapshot) {
	fmt.Printf("members (%d / %d):\n", len(snap.Members), quizroom.MaxRoomMembers)
	for _, m := range snap.Members {
		marker := ""
		if m.ID == snap.Host {
			marker = " (host)"
		}
		if m.ID == self.ID {
			marker += " <- you"
		}
		fmt.Printf("  %s%s\n", m.Name, marker)
	}
	if snap.Host == self.ID && snap.Status != quizroom.RoomPlaying {
		if len(snap.Members) >= quizroom.MinPlayersToStart {
			fmt.Println("you are the host: type start to begin")
		} else {
			fmt.Println("you are the host: waiting for more players")
		}
	}
}

func renderGame(snap quizroom.GameSnapshot) {
	switch snap.GamePhase {
	case quizroom.PhaseWaiting:
		fmt.Printf("waiting for players: %s\n", strings.Join(snap.WaitingForUsers, ", "))
	case quizroom.PhaseShowQuestion, quizroom.PhaseAnswering:
		fmt.Printf("question %d / %d: %s\n", snap.QuestionNumber, snap.TotalQuestions, snap.Question)
		for i, opt := range snap.Options {
			fmt.Printf("  %d. %s\n", i+1, opt)
		}
	case quizroom.PhaseResults:
		if snap.CorrectAnswer != nil {
			fmt.Printf("correct answer: %d. %s\n", *snap.CorrectAnswer+1, snap.CorrectAnswerText)
		}
		fmt.Println("waiting for the next question...")
	}
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func readInput(dst chan<- string) {
	defer close(dst)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		dst <- scanner.Text()
	}
}
