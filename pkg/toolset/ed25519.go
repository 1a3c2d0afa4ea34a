package toolset

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/wollac/iota-crypto-demo/pkg/bip32path"
	"github.com/wollac/iota-crypto-demo/pkg/bip39"
	"github.com/wollac/iota-crypto-demo/pkg/slip10"
	"golang.org/x/term"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/utils"
	pollplugin "github.com/gohornet/tally/plugins/poll"
)

const (
	defaultBIP32Path = "m/44'/4218'/0'/0'/0'"
)

type voterKeys struct {
	BIP39      string `json:"mnemonic,omitempty"`
	BIP32      string `json:"path,omitempty"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey,omitempty"`
	Identity   string `json:"identity"`
}

func printVoterKeys(k *voterKeys, outputJSON bool) error {
	if outputJSON {
		return printJSON(k)
	}

	if len(k.BIP39) > 0 {
		fmt.Println("Your seed BIP39 mnemonic: ", k.BIP39)
		fmt.Println()
		fmt.Println("Your BIP32 path:          ", k.BIP32)
	}
	fmt.Println("Your ed25519 public key:  ", k.PublicKey)
	if len(k.PrivateKey) > 0 {
		fmt.Println("Your ed25519 private key: ", k.PrivateKey)
	}
	fmt.Println("Your voter identity:      ", k.Identity)

	return nil
}

// deriveVoterKey derives the key pair at path from the mnemonic.
func deriveVoterKey(mnemonic bip39.Mnemonic, path bip32path.Path) (ed25519.PrivateKey, error) {
	seed, err := bip39.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}

	key, err := slip10.DeriveKeyFromPath(seed, slip10.Ed25519(), path)
	if err != nil {
		return nil, err
	}

	_, privKey := slip10.Ed25519Key(key)
	return ed25519.PrivateKey(privKey), nil
}

func generateEd25519Key(_ *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	mnemonicFlag := fs.String(FlagToolMnemonic, "", "an existing BIP39 mnemonic to restore the key from (optional)")
	bip32Path := fs.String(FlagToolBIP32Path, defaultBIP32Path, "the BIP32 path that should be used to derive keys from seed")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolEd25519Key)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s \"%s\"",
			ToolEd25519Key,
			FlagToolBIP32Path,
			defaultBIP32Path))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*bip32Path) == 0 {
		return fmt.Errorf("'%s' not specified", FlagToolBIP32Path)
	}

	path, err := bip32path.ParsePath(*bip32Path)
	if err != nil {
		return err
	}

	var mnemonic bip39.Mnemonic
	if len(*mnemonicFlag) > 0 {
		mnemonic = bip39.Mnemonic(strings.Fields(*mnemonicFlag))
	} else {
		// Generate random entropy by using ed25519 key generation and using the private key seed (32 bytes)
		_, random, err := ed25519.GenerateKey(nil)
		if err != nil {
			return err
		}

		if mnemonic, err = bip39.EntropyToMnemonic(random.Seed()); err != nil {
			return err
		}
	}

	privKey, err := deriveVoterKey(mnemonic, path)
	if err != nil {
		return err
	}
	pubKey := privKey.Public().(ed25519.PublicKey)

	return printVoterKeys(&voterKeys{
		BIP39:      mnemonic.String(),
		BIP32:      path.String(),
		PublicKey:  hex.EncodeToString(pubKey),
		PrivateKey: hex.EncodeToString(privKey),
		Identity:   identity.IdentityFromPublicKey(pubKey).String(),
	}, *outputJSONFlag)
}

func generateEd25519Address(_ *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	publicKeyFlag := fs.String(FlagToolPublicKey, "", "an ed25519 public key")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolEd25519Addr)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s",
			ToolEd25519Addr,
			FlagToolPublicKey,
			"[PUB_KEY]"))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*publicKeyFlag) == 0 {
		return fmt.Errorf("'%s' not specified", FlagToolPublicKey)
	}

	pubKey, err := utils.ParseEd25519PublicKeyFromString(*publicKeyFlag)
	if err != nil {
		return fmt.Errorf("can't decode '%s': %w", FlagToolPublicKey, err)
	}

	return printVoterKeys(&voterKeys{
		PublicKey: hex.EncodeToString(pubKey),
		Identity:  identity.IdentityFromPublicKey(pubKey).String(),
	}, *outputJSONFlag)
}

// NewSignedVoteRequest signs the vote with the private key.
func NewSignedVoteRequest(privKey ed25519.PrivateKey, pollID poll.PollID, optionIndex uint32) *pollplugin.VoteRequest {
	pubKey := privKey.Public().(ed25519.PublicKey)

	vote := &poll.Vote{
		PollID:      pollID,
		Voter:       identity.IdentityFromPublicKey(pubKey),
		OptionIndex: optionIndex,
	}

	return &pollplugin.VoteRequest{
		Voter:       vote.Voter,
		OptionIndex: optionIndex,
		PublicKey:   hex.EncodeToString(pubKey),
		Signature:   hex.EncodeToString(ed25519.Sign(privKey, vote.SigningMessage())),
	}
}

func signVote(_ *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	privateKeyFlag := fs.String(FlagToolPrivateKey, "", fmt.Sprintf("the ed25519 private key of the voter, read from %s if not given", EnvVoterPrivateKey))
	pollIDFlag := fs.Uint32(FlagToolPollID, uint32(poll.DefaultPollID), "the poll to vote for")
	optionFlag := fs.Uint32(FlagToolOption, 0, "the index of the chosen option")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolSignVote)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s --%s 1 --%s 0",
			ToolSignVote,
			FlagToolPrivateKey,
			"[PRIV_KEY]",
			FlagToolPollID,
			FlagToolOption))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	var privKey ed25519.PrivateKey
	var err error
	switch {
	case len(*privateKeyFlag) > 0:
		privKey, err = utils.ParseEd25519PrivateKeyFromString(*privateKeyFlag)
	case len(os.Getenv(EnvVoterPrivateKey)) > 0:
		privKey, err = utils.LoadEd25519PrivateKeyFromEnvironment(EnvVoterPrivateKey)
	default:
		privKey, err = readPrivateKeyFromTerminal()
	}
	if err != nil {
		return fmt.Errorf("can't load the private key: %w", err)
	}

	return printJSON(NewSignedVoteRequest(privKey, poll.PollID(*pollIDFlag), *optionFlag))
}

// readPrivateKeyFromTerminal asks for the private key without echoing it.
func readPrivateKeyFromTerminal() (ed25519.PrivateKey, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil, fmt.Errorf("neither --%s nor %s was given", FlagToolPrivateKey, EnvVoterPrivateKey)
	}

	fmt.Print("Enter the private key of the voter: ")
	privKeyHex, err := term.ReadPassword(int(syscall.Stdin))
	println()
	if err != nil {
		return nil, err
	}

	return utils.ParseEd25519PrivateKeyFromString(string(privKeyHex))
}
