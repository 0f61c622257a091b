// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/ledger"
)

const receiptSuffix = ".json"

// submitter - the part of the host used by the inbox
type submitter interface {
	Submit(t *ledger.Transaction) (*ledger.Receipt, error)
}

// inbox - applies transaction files dropped into a directory
//
// a writer must create the file under a name starting with "." and
// rename it once complete; the receipt appears in the outbox under the
// same name with a ".json" suffix
type inbox struct {
	log       *logger.L
	host      submitter
	directory string
	outbox    string
	limiter   *rate.Limiter
	watcher   *fsnotify.Watcher
}

func newInbox(host submitter, directory string, outbox string, perSecond float64) (*inbox, error) {
	if perSecond <= 0 {
		return nil, fault.ErrInvalidRate
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := watcher.Add(directory); nil != err {
		watcher.Close()
		return nil, err
	}

	return &inbox{
		log:       logger.New("inbox"),
		host:      host,
		directory: directory,
		outbox:    outbox,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		watcher:   watcher,
	}, nil
}

func (i *inbox) Run(args interface{}, shutdown <-chan struct{}) {
	log := i.log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Infof("watching: %q", i.directory)

	// anything left from a previous run
	if err := i.scan(ctx); nil != err {
		log.Errorf("scan error: %s", err)
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-i.watcher.Events:
			if !ok {
				break loop
			}
			if 0 != event.Op&fsnotify.Create {
				if err := i.process(ctx, event.Name); nil != err {
					log.Criticalf("file: %q  error: %s", event.Name, err)
				}
			}

		case err, ok := <-i.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	i.watcher.Close()
	log.Info("shutdown")
}

// process every waiting file in name order
func (i *inbox) scan(ctx context.Context) error {
	files, err := ioutil.ReadDir(i.directory)
	if nil != err {
		return err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Mode().IsRegular() {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := i.process(ctx, filepath.Join(i.directory, name)); nil != err {
			return err
		}
	}
	return nil
}

// submit one file and write its receipt
//
// only storage failures are returned; the file then stays in the inbox
// to be retried on the next start
func (i *inbox) process(ctx context.Context, fileName string) error {
	base := filepath.Base(fileName)
	if strings.HasPrefix(base, ".") {
		return nil
	}

	if err := i.limiter.Wait(ctx); nil != err {
		return nil // shutting down
	}

	buffer, err := ioutil.ReadFile(fileName)
	if os.IsNotExist(err) {
		return nil // already handled
	} else if nil != err {
		return err
	}

	receipt, err := i.submit(buffer)
	if nil != err {
		return err
	}

	if err := i.writeReceipt(base, receipt); nil != err {
		return err
	}
	i.log.Infof("file: %s  id: %s  code: %d", base, receipt.ID, receipt.Code)

	return os.Remove(fileName)
}

// malformed files are answered with a receipt that has no id
func (i *inbox) submit(buffer []byte) (*ledger.Receipt, error) {
	t, err := ledger.UnpackTransaction(buffer)
	if nil != err {
		i.log.Warnf("unpack error: %s", err)
		return &ledger.Receipt{
			Code:  fault.Code(err),
			Error: err.Error(),
		}, nil
	}
	return i.host.Submit(t)
}

// write to a hidden name then rename so readers never see a partial receipt
func (i *inbox) writeReceipt(base string, receipt *ledger.Receipt) error {
	text, err := json.MarshalIndent(receipt, "", "  ")
	if nil != err {
		return err
	}

	final := filepath.Join(i.outbox, base+receiptSuffix)
	temporary := filepath.Join(i.outbox, "."+base+receiptSuffix)
	if err := ioutil.WriteFile(temporary, append(text, '\n'), 0600); nil != err {
		return err
	}
	return os.Rename(temporary, final)
}
