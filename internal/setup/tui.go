// Package setup runs the interactive configuration wizard.
package setup

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/smilewilson1999/Eggregator/config"
)

// DefaultPath is where the wizard writes the configuration.
const DefaultPath = "config.gen.yaml"

const wizardTitle = "EGGREGATOR CONFIG WIZARD"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// answers collects the raw wizard input.
type answers struct {
	Source          string
	HoldingsFile    string
	RPCURL          string
	WalletAddress   string
	Pricer          string
	Quote           string
	RefreshInterval string
	Listen          string
	PageSize        string
}

// Source kinds offered by the wizard.
const (
	sourceLive = "live"
	sourceFile = "file"
)

func defaultAnswers() answers {
	def := config.Default()
	return answers{
		Source:          sourceLive,
		RPCURL:          "https://eth.llamarpc.com",
		Pricer:          def.Pricer,
		Quote:           def.Quote,
		RefreshInterval: def.RefreshInterval.String(),
		Listen:          def.Listen,
		PageSize:        strconv.Itoa(def.PageSize),
	}
}

// RunTUI launches the terminal configuration wizard and writes the result to path.
func RunTUI(path string) (config.Config, error) {
	if path == "" {
		path = DefaultPath
	}
	a := defaultAnswers()
	var confirm bool

	screen("")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("All your balances, one table.\n"))

	// holdings source
	fmt.Println(stepStyle.Render("STEP 1: HOLDINGS"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where do holdings come from?").
				Options(
					huh.NewOption("Binance.US account and Ethereum wallet", sourceLive),
					huh.NewOption("Holdings YAML file", sourceFile),
				).
				Value(&a.Source),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}

	if a.Source == sourceFile {
		screen("STEP 2: HOLDINGS FILE")
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Holdings file").
					Description("YAML with exchange, wallet and prices lists").
					Value(&a.HoldingsFile).
					Validate(validateFile),
			),
		).Run()
	} else {
		screen("STEP 2: WALLET")
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render(
			fmt.Sprintf("Binance.US keys are read from %s and %s.", config.EnvBinanceAPIKey, config.EnvBinanceAPISecret)))
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Ethereum wallet address").
					Description("Leave empty to skip the wallet").
					Value(&a.WalletAddress).
					Validate(validateAddress),
				huh.NewInput().
					Title("Ethereum RPC URL").
					Value(&a.RPCURL).
					Validate(validateURL),
			),
		).Run()
	}
	if err != nil {
		return config.Config{}, err
	}

	// prices
	screen("STEP 3: PRICES")
	pricerOptions := []huh.Option[string]{
		huh.NewOption("Binance", config.PricerBinance),
		huh.NewOption("Bybit", config.PricerBybit),
		huh.NewOption("Hyperliquid", config.PricerHyperliquid),
	}
	if a.Source == sourceFile {
		pricerOptions = append(pricerOptions, huh.NewOption("Prices from the holdings file", config.PricerFile))
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Price provider").
				Options(pricerOptions...).
				Value(&a.Pricer),
			huh.NewInput().
				Title("Quote asset").
				Description("Exchange assets are priced against it (e.g. USDT)").
				Value(&a.Quote).
				Validate(validateSymbol),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}

	// refresh and presentation
	screen("STEP 4: TIMING")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("Duration string (e.g. 30s, 1m, 5m)").
				Value(&a.RefreshInterval).
				Validate(validateInterval),
			huh.NewInput().
				Title("Rows per page").
				Value(&a.PageSize).
				Validate(validatePageSize),
			huh.NewInput().
				Title("Web listen address").
				Value(&a.Listen),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}

	conf, err := a.config()
	if err != nil {
		return config.Config{}, err
	}

	screen("FINAL CONFIRMATION")
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(a.summary()))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return config.Config{}, err
	}
	if !confirm {
		return config.Config{}, errors.New("setup cancelled by user")
	}

	if err := Save(path, conf); err != nil {
		return config.Config{}, err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return conf, nil
}

// Save writes conf as YAML to path.
func Save(path string, conf config.Config) error {
	data, err := conf.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to save config file %s", path)
	}
	return nil
}

func screen(step string) {
	fmt.Print("\033[H\033[2J") // clear screen
	fmt.Println(headerStyle.Render(wizardTitle))
	if step != "" {
		fmt.Println(stepStyle.Render(step))
	}
}

// config converts the answers through the same validation as a config file.
func (a answers) config() (config.Config, error) {
	tmp := config.ConfigTmp{
		Pricer:          a.Pricer,
		Quote:           a.Quote,
		RefreshInterval: a.RefreshInterval,
		Listen:          a.Listen,
		PageSize:        a.PageSize,
	}
	if a.Source == sourceFile {
		tmp.HoldingsFile = strings.TrimSpace(a.HoldingsFile)
	} else if addr := strings.TrimSpace(a.WalletAddress); addr != "" {
		tmp.WalletAddress = addr
		tmp.EthereumRPCURL = strings.TrimSpace(a.RPCURL)
	}
	return config.FromTmp(tmp)
}

func (a answers) summary() string {
	var b strings.Builder
	if a.Source == sourceFile {
		fmt.Fprintf(&b, "Holdings: %s\n", a.HoldingsFile)
	} else {
		fmt.Fprintf(&b, "Holdings: Binance.US")
		if a.WalletAddress != "" {
			fmt.Fprintf(&b, " + Ethereum %s", a.WalletAddress)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Prices: %s (%s)\nInterval: %s\nPage size: %s\nListen: %s\n",
		a.Pricer, a.Quote, a.RefreshInterval, a.PageSize, a.Listen)
	return b.String()
}

func validateAddress(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !common.IsHexAddress(s) {
		return errors.New("must be a 0x-prefixed hex address")
	}
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return errors.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func validateFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path cannot be empty")
	}
	info, err := os.Stat(s)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func validateSymbol(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("symbol cannot be empty")
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("symbol must be alphanumeric")
		}
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return errors.New("must be a positive integer")
	}
	return nil
}
