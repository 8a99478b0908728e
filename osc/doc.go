// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes, sends and receives OpenSoundControl packets.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	't' (Timetag)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//
//- Supports OSC bundles, including TimeTags
//
//- A batching Sender: messages are queued with their own time tags and
//flushed as a single bundle, one UDP datagram per Flush.
//
//- A Server and a Dispatcher for receiving packets.
//
//Usage
//
//Sender example:
//  s, err := osc.NewSender(osc.DefaultSenderConfig())
//  if err != nil {
//      return err
//  }
//  s.Push("/oscify/lead/note/on", true, osc.NewTimetagFromTime(time.Now()))
//  s.Push("/oscify/lead/note/key", int32(60), osc.NewTimetagFromTime(time.Now()))
//  err = s.Flush()
//
//Server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/oscify/lead/pitch", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//  osc.ListenAndServe("127.0.0.1:9001", d.Dispatch)
package osc
