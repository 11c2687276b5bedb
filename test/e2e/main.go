package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	composePath = "resources/compose/docker-compose.yml"
	volumesPath = "resources/volumes"
	datadir     = "resources/volumes/descwallet"

	fundAmount = "10"
	sendAmount = "5"
)

type balance struct {
	Confirmed   string `json:"confirmed"`
	Unconfirmed string `json:"unconfirmed"`
	Immature    string `json:"immature"`
	Total       string `json:"total"`
}

type runReport struct {
	WalletName     string  `json:"wallet_name"`
	ReceiveAddress string  `json:"receive_address"`
	FundTxID       string  `json:"fund_txid"`
	SpendTxID      string  `json:"spend_txid"`
	NodeBalance    balance `json:"node_balance"`
	WalletBalance  balance `json:"wallet_balance"`
}

func main() {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Println("Recover from panic", rec)
		}
		clear()
	}()

	if err := makeDirectoryIfNotExists(datadir); err != nil {
		log.WithError(err).Error("failed to create volume dir")
		return
	}

	log.Info("starting bitcoind...")
	// docker-compose logs are sent to stderr therefore we cannot check for errors :(
	runCommand("docker-compose", "-f", composePath, "up", "-d", "bitcoind")
	if err := waitForNode(); err != nil {
		log.WithError(err).Error("bitcoind is not reachable")
		return
	}
	log.Infof("done\n\n")

	log.Info("deriving descriptors...")
	out, err := runCLICommand("descriptors", "--checksum")
	if err != nil {
		log.WithError(err).Error("failed to derive descriptors")
		return
	}
	descriptors := map[string]string{}
	if err := json.Unmarshal([]byte(out), &descriptors); err != nil {
		log.WithError(err).Error("failed to parse descriptors")
		return
	}
	log.Infof("receive: %s", descriptors["receive"])
	log.Infof("change: %s\n\n", descriptors["change"])

	log.Info("running send-and-verify cycle...")
	out, err = runCLICommand("run")
	if err != nil {
		log.WithError(err).Error("failed to run cycle")
		return
	}
	report := runReport{}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		log.WithError(err).Error("failed to parse run report")
		return
	}
	log.Infof("wallet: %s", report.WalletName)
	log.Infof("fund tx: %s", report.FundTxID)
	log.Infof("spend tx: %s\n\n", report.SpendTxID)

	log.Info("checking spending transaction is confirmed...")
	confirmations, err := getConfirmations(report.SpendTxID)
	if err != nil {
		log.WithError(err).Error("failed to fetch spending transaction")
		return
	}
	if confirmations <= 0 {
		log.Errorf("spending transaction %s is not confirmed", report.SpendTxID)
		return
	}
	log.Infof("done\n\n")

	log.Info("checking stored wallet balance...")
	out, err = runCLICommand("balance", "--wallet", report.WalletName)
	if err != nil {
		log.WithError(err).Error("failed to get wallet balance")
		return
	}
	stored := struct {
		Balance balance `json:"balance"`
	}{}
	if err := json.Unmarshal([]byte(out), &stored); err != nil {
		log.WithError(err).Error("failed to parse wallet balance")
		return
	}
	if err := checkBalance(stored.Balance); err != nil {
		log.WithError(err).Error("unexpected wallet balance")
		return
	}
	log.Infof("balance: %s BTC\n\n", stored.Balance.Total)

	log.Info("e2e test completed")
}

// checkBalance makes sure the wallet was left with the change of the spend,
// that is less than the funded minus the sent amount because of fees.
func checkBalance(b balance) error {
	total, err := decimal.NewFromString(b.Total)
	if err != nil {
		return err
	}
	fund, _ := decimal.NewFromString(fundAmount)
	send, _ := decimal.NewFromString(sendAmount)
	max := fund.Sub(send)

	if !total.IsPositive() || !total.LessThan(max) {
		return fmt.Errorf("expected balance in range (0, %s), got %s", max, total)
	}
	return nil
}

func waitForNode() error {
	var err error
	for i := 0; i < 10; i++ {
		if _, err = runBitcoinCLICommand("getblockchaininfo"); err == nil {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return err
}

func getConfirmations(txid string) (int, error) {
	out, err := runBitcoinCLICommand("getrawtransaction", txid, "true")
	if err != nil {
		return 0, err
	}
	tx := struct {
		Confirmations int `json:"confirmations"`
	}{}
	if err := json.Unmarshal([]byte(out), &tx); err != nil {
		return 0, err
	}
	return tx.Confirmations, nil
}

func clear() {
	// stop all services
	runCommand("docker-compose", "-f", composePath, "down")
	// remove volumes
	runCommand("rm", "-rf", volumesPath)
}

func runCLICommand(arg ...string) (string, error) {
	args := append(
		[]string{"run", "./cmd/descwallet", "--datadir", datadir}, arg...,
	)
	return runCommand("go", args...)
}

func runBitcoinCLICommand(arg ...string) (string, error) {
	args := append([]string{
		"exec", "bitcoind", "bitcoin-cli", "-regtest",
		"-rpcuser=admin", "-rpcpassword=password",
	}, arg...)
	return runCommand("docker", args...)
}

func runCommand(name string, arg ...string) (string, error) {
	outb := new(strings.Builder)
	errb := new(strings.Builder)
	cmd := newCommand(outb, errb, name, arg...)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %s", err, errb.String())
	}

	return strings.Trim(outb.String(), "\n"), nil
}

func newCommand(out, err io.Writer, name string, arg ...string) *exec.Cmd {
	cmd := exec.Command(name, arg...)
	cmd.Env = append(
		os.Environ(),
		"DESCWALLET_FUND_AMOUNT="+fundAmount,
		"DESCWALLET_SEND_AMOUNT="+sendAmount,
	)
	if out != nil {
		cmd.Stdout = out
	}
	if err != nil {
		cmd.Stderr = err
	}
	return cmd
}

func makeDirectoryIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModeDir|0755); err != nil {
			return err
		}
	}
	return nil
}
