/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/stocksport-td/document"
	"github.com/mikeb26/stocksport-td/internal"
)

var botPubKey ed25519.PublicKey
var client *discordgo.Session
var store document.Store

type TopLevelCommand string

const StockCmd TopLevelCommand = "stock"

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	StockCmd: stockCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interation type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(rawResp)
	if err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func parsePubKey(text string) (ed25519.PublicKey, error) {
	pubKeyBytes, err := hex.DecodeString(text)
	if err != nil {
		return nil, err
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %v bytes; want %v",
			len(pubKeyBytes), ed25519.PublicKeySize)
	}

	return ed25519.PublicKey(pubKeyBytes), nil
}

func cmdHash(cmd *discordgo.ApplicationCommand) string {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("discordbot.reg: failed to marshal cmd: %v", err)
	}
	hash := sha256.Sum256(cmdJson)

	return hex.EncodeToString(hash[:])
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand,
	lastHash string) bool {

	hexString := cmdHash(cmd)
	shouldUpdate := (hexString != lastHash)
	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please set DISCORD_CMD_HASH to %v",
			hexString)
	}

	return shouldUpdate
}

func competitionOptions(groupRequired bool) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "competition",
			Description: "Name of the competition (as returned by list)",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "group",
			Description: "Group number (default is all groups)",
			Required:    groupRequired,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "broadcast",
			Description: "Share with the rest of the channel instead of only to you (default is false)",
			Required:    false,
		},
	}
}

func stockCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(StockCmd),
		Description: "Stock sport competition commands; try /stock help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(StockHelpCmd),
				Description: "Show usage for stock",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(StockListCmd),
				Description: "List saved competitions",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(StockScheduleCmd),
				Description: "Show the full schedule of a competition",
				Options:     competitionOptions(false),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(StockNextCmd),
				Description: "Show the matches of the current batch",
				Options:     competitionOptions(false),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(StockStandingsCmd),
				Description: "Show the interim results",
				Options:     competitionOptions(false),
			},
		},
	}
}

func registerSlashCommands(cfg *internal.Config) {
	stockCmd := stockCommand()

	if cfg.DiscordCmdID == "" {
		cmd, err := client.ApplicationCommandCreate(cfg.DiscordAppID, "", stockCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", stockCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); please set DISCORD_CMD_ID",
			cmd.Name, cmd.ID)
	} else if shouldUpdateCmdRegistration(stockCmd, cfg.DiscordCmdHash) {
		cmd, err := client.ApplicationCommandEdit(cfg.DiscordAppID, "",
			cfg.DiscordCmdID, stockCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", stockCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	ctx := context.Background()
	cfg := internal.LoadConfig()

	var err error
	botPubKey, err = parsePubKey(cfg.DiscordPublicKey)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to parse DISCORD_PUBLIC_KEY: %v", err)
	}
	client, err = discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to initialize discord client: %v", err)
	}
	var closeFn func()
	store, closeFn, err = document.Open(ctx, cfg.Store, cfg)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to open %v store: %v", cfg.Store, err)
	}
	defer closeFn()

	go registerSlashCommands(cfg)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v", hostname,
		cfg.ListenAddr)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
